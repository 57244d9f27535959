package repository

import (
	"errors"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/util"

	"gorm.io/gorm"
)

// QuestionRepository 题组提供方：按 (quizType, phase, lesson) 返回有序题目
type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.QuizQuestion) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.QuizQuestion, error) {
	var q model.QuizQuestion
	err := r.DB.First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return &q, err
}

func (r *QuestionRepository) Update(question *model.QuizQuestion) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	result := r.DB.Delete(&model.QuizQuestion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrQuestionNotFound
	}
	return nil
}

// ListByScope 题组内题目按 order 升序返回
func (r *QuestionRepository) ListByScope(quizType model.QuizType, phase model.QuizPhase, lesson int) ([]model.QuizQuestion, error) {
	var qs []model.QuizQuestion
	err := r.DB.Where("quiz_type = ? AND phase = ? AND lesson = ?", quizType, phase, lesson).
		Order("`order` asc, id asc").
		Find(&qs).Error
	return qs, err
}
