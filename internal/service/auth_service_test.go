package service

import (
	"testing"
	"time"

	"webstudy_backend/internal/config"
	"webstudy_backend/internal/model"
	"webstudy_backend/internal/repository"
	"webstudy_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(repository.NewUserRepository(db), &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			ExpireTime: time.Hour,
		},
	})
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{
		Name:     "Ana",
		Email:    "ana@school.test",
		Password: "secret123",
		Role:     model.Student,
	}
	require.NoError(t, svc.Register(user))
	assert.NotEqual(t, "secret123", user.Password, "密码必须散列后入库")

	t.Run("邮箱唯一", func(t *testing.T) {
		dup := &model.User{Name: "Ana2", Email: "ana@school.test", Password: "x"}
		assert.ErrorIs(t, svc.Register(dup), util.ErrEmailRegistered)
	})

	t.Run("登录签发可解析的令牌", func(t *testing.T) {
		token, err := svc.Login("ana@school.test", "secret123")
		require.NoError(t, err)

		claims, err := util.ParseJWT(token, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, model.Student, claims.Role)
	})

	t.Run("错误密码", func(t *testing.T) {
		_, err := svc.Login("ana@school.test", "wrong")
		assert.Error(t, err)
	})

	t.Run("不存在的邮箱", func(t *testing.T) {
		_, err := svc.Login("ghost@school.test", "secret123")
		assert.Error(t, err)
	})
}
