package service

import (
	"encoding/json"
	"sort"
	"sync"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/repository"
	"webstudy_backend/internal/util"
	"webstudy_backend/pkg/logger"

	"go.uber.org/zap"
)

// QuestionService 题库维护（管理端）
type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

type QuestionReq struct {
	QuizType     model.QuizType  `json:"quizType" binding:"required"`
	Phase        model.QuizPhase `json:"phase" binding:"required"`
	Lesson       int             `json:"lesson" binding:"required"`
	Question     string          `json:"question" binding:"required"`
	Choices      []string        `json:"choices" binding:"required"`
	CorrectIndex int             `json:"correctIndex" binding:"required"`
	Score        int             `json:"score"`
	Order        int             `json:"order"`
}

func (s *QuestionService) validate(req QuestionReq) error {
	if !req.QuizType.Valid() {
		return util.Invalid("quizType", "must be html or css")
	}
	if !req.Phase.Valid() {
		return util.Invalid("phase", "must be pre or post")
	}
	if req.Lesson < 1 || req.Lesson > util.LessonsPerCourse {
		return util.Invalid("lesson", "out of range")
	}
	if len(req.Choices) < 2 {
		return util.Invalid("choices", "at least two choices required")
	}
	if req.CorrectIndex < 1 || req.CorrectIndex > len(req.Choices) {
		return util.Invalid("correctIndex", "must reference one of the choices")
	}
	if req.Score < 0 {
		return util.Invalid("score", "must not be negative")
	}
	return nil
}

func (s *QuestionService) CreateQuestion(req QuestionReq) (*model.QuizQuestion, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	choices, err := json.Marshal(req.Choices)
	if err != nil {
		return nil, err
	}

	score := req.Score
	if score == 0 {
		score = 1
	}

	question := &model.QuizQuestion{
		QuizType:     req.QuizType,
		Phase:        req.Phase,
		Lesson:       req.Lesson,
		Question:     req.Question,
		Choices:      choices,
		CorrectIndex: req.CorrectIndex,
		Score:        score,
		Order:        req.Order,
	}
	if err := s.Repo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) UpdateQuestion(id uint, req QuestionReq) (*model.QuizQuestion, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	question, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	choices, err := json.Marshal(req.Choices)
	if err != nil {
		return nil, err
	}

	question.QuizType = req.QuizType
	question.Phase = req.Phase
	question.Lesson = req.Lesson
	question.Question = req.Question
	question.Choices = choices
	question.CorrectIndex = req.CorrectIndex
	if req.Score > 0 {
		question.Score = req.Score
	}
	question.Order = req.Order

	if err := s.Repo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) DeleteQuestion(id uint) error {
	return s.Repo.Delete(id)
}

func (s *QuestionService) ListQuestions(quizType model.QuizType, phase model.QuizPhase, lesson int) ([]model.QuizQuestion, error) {
	if !quizType.Valid() {
		return nil, util.Invalid("quizType", "must be html or css")
	}
	if !phase.Valid() {
		return nil, util.Invalid("phase", "must be pre or post")
	}
	if lesson < 1 || lesson > util.LessonsPerCourse {
		return nil, util.Invalid("lesson", "out of range")
	}
	return s.Repo.ListByScope(quizType, phase, lesson)
}

// BulkDeleteResult 批量删除的汇总：成功数与失败数分开上报
type BulkDeleteResult struct {
	Deleted   int    `json:"deleted"`
	Failed    int    `json:"failed"`
	FailedIDs []uint `json:"failedIds,omitempty"`
}

// BulkDeleteQuestions 并发删除，收齐全部结果后汇总
//
// 各删除相互独立，单条失败不回滚也不中断其余删除。
func (s *QuestionService) BulkDeleteQuestions(ids []uint) *BulkDeleteResult {
	result := &BulkDeleteResult{}
	if len(ids) == 0 {
		return result
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			err := s.Repo.Delete(id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.FailedIDs = append(result.FailedIDs, id)
				logger.Log.Warn("bulk delete question failed",
					zap.Uint("questionId", id), zap.Error(err))
				return
			}
			result.Deleted++
		}(id)
	}
	wg.Wait()

	sort.Slice(result.FailedIDs, func(i, j int) bool { return result.FailedIDs[i] < result.FailedIDs[j] })
	return result
}
