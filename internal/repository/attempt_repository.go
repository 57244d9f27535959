package repository

import (
	"errors"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// AttemptFilter 按任意子集过滤查询
type AttemptFilter struct {
	UserID   uint
	QuizType model.QuizType
	Phase    model.QuizPhase
	Lesson   int
}

// UpsertPretest 写入课前测成绩，同一 (user, quizType, lesson) 至多保留一行
//
// 整个读-改-写包在一个事务里并对已有行加排他锁，关闭并发重复提交
// 产生重复行的窗口。返回 created=false 表示覆盖了已有记录。
func (r *AttemptRepository) UpsertPretest(attempt *model.Attempt) (created bool, err error) {
	err = r.DB.Transaction(func(tx *gorm.DB) error {
		query := tx.Where(
			"user_id = ? AND quiz_type = ? AND phase = ? AND lesson = ?",
			attempt.UserID, attempt.QuizType, model.PhasePre, attempt.Lesson,
		)
		// SQLite 方言（测试环境）不支持行锁语法
		if tx.Dialector.Name() == "mysql" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var existing model.Attempt
		findErr := query.First(&existing).Error
		if findErr == nil {
			// 原地覆盖，保留原 id 和创建时间
			attempt.ID = existing.ID
			attempt.CreatedAt = existing.CreatedAt
			created = false
			return tx.Model(&existing).Updates(map[string]interface{}{
				"score":        attempt.Score,
				"total_score":  attempt.TotalScore,
				"percentage":   attempt.Percentage,
				"passed":       attempt.Passed,
				"answers":      attempt.Answers,
				"completed_at": attempt.CompletedAt,
			}).Error
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		created = true
		if createErr := tx.Create(attempt).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return util.ErrDuplicatePretest
			}
			return createErr
		}
		return nil
	})
	return created, err
}

// CreatePosttest 课后测纯追加写入，无读前置依赖
func (r *AttemptRepository) CreatePosttest(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.First(&attempt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	return &attempt, err
}

func (r *AttemptRepository) DeleteByID(id string) error {
	return r.DB.Delete(&model.Attempt{}, "id = ?", id).Error
}

// List 查询结果按课次升序、课次内按完成时间倒序（最新在前）
func (r *AttemptRepository) List(filter AttemptFilter) ([]model.Attempt, error) {
	query := r.DB.Model(&model.Attempt{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.QuizType != "" {
		query = query.Where("quiz_type = ?", filter.QuizType)
	}
	if filter.Phase != "" {
		query = query.Where("phase = ?", filter.Phase)
	}
	if filter.Lesson != 0 {
		query = query.Where("lesson = ?", filter.Lesson)
	}

	var attempts []model.Attempt
	err := query.Order("lesson asc, completed_at desc, id desc").Find(&attempts).Error
	return attempts, err
}

// PretestLessons 已有课前测记录的课次编号，升序去重
func (r *AttemptRepository) PretestLessons(userID uint, quizType model.QuizType) ([]int, error) {
	var lessons []int
	err := r.DB.Model(&model.Attempt{}).
		Where("user_id = ? AND quiz_type = ? AND phase = ?", userID, quizType, model.PhasePre).
		Distinct("lesson").
		Order("lesson asc").
		Pluck("lesson", &lessons).Error
	return lessons, err
}
