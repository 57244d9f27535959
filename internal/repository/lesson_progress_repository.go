package repository

import (
	"errors"

	"webstudy_backend/internal/model"

	"gorm.io/gorm"
)

type LessonProgressRepository struct {
	DB *gorm.DB
}

func NewLessonProgressRepository(db *gorm.DB) *LessonProgressRepository {
	return &LessonProgressRepository{DB: db}
}

func (r *LessonProgressRepository) Find(userID uint, quizType model.QuizType, lesson int) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.Where("user_id = ? AND quiz_type = ? AND lesson = ?", userID, quizType, lesson).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Apply 更新课次进度，不存在则创建
//
// skipped 只升不降：一旦免修被授予，后续传入 false 不会撤销。
func (r *LessonProgressRepository) Apply(userID uint, quizType model.QuizType, lesson int, completed, skipped *bool) (*model.LessonProgress, error) {
	var result *model.LessonProgress
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var progress model.LessonProgress
		findErr := tx.Where("user_id = ? AND quiz_type = ? AND lesson = ?", userID, quizType, lesson).
			First(&progress).Error
		if findErr != nil {
			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return findErr
			}
			progress = model.LessonProgress{
				UserID:   userID,
				QuizType: quizType,
				Lesson:   lesson,
			}
		}

		if completed != nil {
			progress.Completed = *completed
		}
		if skipped != nil && *skipped {
			progress.Skipped = true
		}

		if progress.ID == 0 {
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
		} else if err := tx.Save(&progress).Error; err != nil {
			return err
		}

		result = &progress
		return nil
	})
	return result, err
}

func (r *LessonProgressRepository) ListByUser(userID uint, quizType model.QuizType) ([]model.LessonProgress, error) {
	var rows []model.LessonProgress
	err := r.DB.Where("user_id = ? AND quiz_type = ?", userID, quizType).
		Order("lesson asc").
		Find(&rows).Error
	return rows, err
}
