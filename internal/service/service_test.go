package service

import (
	"encoding/json"
	"testing"
	"time"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/repository"
	"webstudy_backend/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB 每个测试独立的内存库；单连接保证内存库在连接池下不丢表
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

func mustChoices(t *testing.T, opts ...string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(opts)
	require.NoError(t, err)
	return raw
}

// seedQuestions 往一个题组塞 n 道 1 分题，正确答案都是 "A"
func seedQuestions(t *testing.T, db *gorm.DB, quizType model.QuizType, phase model.QuizPhase, lesson, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		q := model.QuizQuestion{
			QuizType:     quizType,
			Phase:        phase,
			Lesson:       lesson,
			Question:     "question",
			Choices:      mustChoices(t, "A", "B", "C", "D"),
			CorrectIndex: 1,
			Score:        1,
			Order:        i,
		}
		require.NoError(t, db.Create(&q).Error)
	}
}

// insertAttempt 直接写一条记录，绕开 Submit 以便控制分数和完成时间
func insertAttempt(t *testing.T, db *gorm.DB, userID uint, quizType model.QuizType, phase model.QuizPhase, lesson int, percentage float64, completedAt time.Time) model.Attempt {
	t.Helper()
	attempt := model.Attempt{
		UserID:      userID,
		QuizType:    quizType,
		Phase:       phase,
		Lesson:      lesson,
		Score:       int(percentage / 10),
		TotalScore:  10,
		Percentage:  percentage,
		CompletedAt: completedAt,
	}
	require.NoError(t, db.Create(&attempt).Error)
	return attempt
}

func newAttemptService(db *gorm.DB) *AttemptService {
	return NewAttemptService(
		repository.NewAttemptRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewLessonProgressRepository(db),
	)
}

func newFlowService(db *gorm.DB) *AssessmentFlowService {
	return NewAssessmentFlowService(
		repository.NewAttemptRepository(db),
		repository.NewLessonProgressRepository(db),
	)
}
