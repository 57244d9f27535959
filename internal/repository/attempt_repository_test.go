package repository

import (
	"testing"
	"time"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/util"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.QuizQuestion{},
		&model.Attempt{},
		&model.LessonProgress{},
	))
	return db
}

func pretest(userID uint, lesson int, percentage float64, completedAt time.Time) *model.Attempt {
	return &model.Attempt{
		UserID:      userID,
		QuizType:    model.QuizTypeHTML,
		Phase:       model.PhasePre,
		Lesson:      lesson,
		Percentage:  percentage,
		CompletedAt: completedAt,
	}
}

func TestUpsertPretest(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := pretest(7, 1, 40, base)
	created, err := repo.UpsertPretest(first)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotEmpty(t, first.ID)

	second := pretest(7, 1, 90, base.Add(time.Hour))
	created, err = repo.UpsertPretest(second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID, "覆盖写入保留原 id")

	var count int64
	require.NoError(t, db.Model(&model.Attempt{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	stored, err := repo.FindByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, stored.Percentage)
	assert.True(t, stored.CompletedAt.Equal(base.Add(time.Hour)))

	t.Run("不同课次互不影响", func(t *testing.T) {
		other := pretest(7, 2, 50, base)
		created, err := repo.UpsertPretest(other)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, first.ID, other.ID)
	})

	t.Run("不同学生互不影响", func(t *testing.T) {
		other := pretest(8, 1, 50, base)
		created, err := repo.UpsertPretest(other)
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func TestCreatePosttest_AlwaysAppends(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		attempt := &model.Attempt{
			UserID:      7,
			QuizType:    model.QuizTypeHTML,
			Phase:       model.PhasePost,
			Lesson:      1,
			CompletedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.CreatePosttest(attempt))
	}

	var count int64
	require.NoError(t, db.Model(&model.Attempt{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestFindByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)

	_, err := repo.FindByID("no-such-id")
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestList_Ordering(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	lesson2 := pretest(7, 2, 50, base)
	require.NoError(t, db.Create(lesson2).Error)
	lesson1old := &model.Attempt{
		UserID: 7, QuizType: model.QuizTypeHTML, Phase: model.PhasePost,
		Lesson: 1, CompletedAt: base,
	}
	require.NoError(t, db.Create(lesson1old).Error)
	lesson1new := &model.Attempt{
		UserID: 7, QuizType: model.QuizTypeHTML, Phase: model.PhasePost,
		Lesson: 1, CompletedAt: base.Add(time.Hour),
	}
	require.NoError(t, db.Create(lesson1new).Error)

	attempts, err := repo.List(AttemptFilter{UserID: 7})
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	assert.Equal(t, lesson1new.ID, attempts[0].ID, "课次升序、课次内最新在前")
	assert.Equal(t, lesson1old.ID, attempts[1].ID)
	assert.Equal(t, lesson2.ID, attempts[2].ID)
}

func TestList_Filters(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(pretest(7, 1, 50, base)).Error)
	require.NoError(t, db.Create(&model.Attempt{
		UserID: 7, QuizType: model.QuizTypeCSS, Phase: model.PhasePost,
		Lesson: 1, CompletedAt: base,
	}).Error)

	attempts, err := repo.List(AttemptFilter{UserID: 7, QuizType: model.QuizTypeCSS})
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, model.QuizTypeCSS, attempts[0].QuizType)

	attempts, err = repo.List(AttemptFilter{UserID: 7, Phase: model.PhasePre})
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, model.PhasePre, attempts[0].Phase)
}

func TestPretestLessons(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for _, lesson := range []int{5, 1, 3} {
		_, err := repo.UpsertPretest(pretest(7, lesson, 50, base))
		require.NoError(t, err)
	}
	// 课后测不算课前测课次
	require.NoError(t, db.Create(&model.Attempt{
		UserID: 7, QuizType: model.QuizTypeHTML, Phase: model.PhasePost,
		Lesson: 9, CompletedAt: base,
	}).Error)

	lessons, err := repo.PretestLessons(7, model.QuizTypeHTML)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, lessons)
}
