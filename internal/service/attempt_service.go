package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/repository"
	"webstudy_backend/internal/util"
	"webstudy_backend/pkg/monitoring"
)

// AttemptService 测验台账：负责提交评分、阶段写入规则和免修判定
type AttemptService struct {
	AttemptRepo  *repository.AttemptRepository
	QuestionRepo *repository.QuestionRepository
	ProgressRepo *repository.LessonProgressRepository
}

func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	questionRepo *repository.QuestionRepository,
	progressRepo *repository.LessonProgressRepository,
) *AttemptService {
	return &AttemptService{
		AttemptRepo:  attemptRepo,
		QuestionRepo: questionRepo,
		ProgressRepo: progressRepo,
	}
}

type SubmitAttemptReq struct {
	QuizType model.QuizType    `json:"quizType" binding:"required"`
	Phase    model.QuizPhase   `json:"phase" binding:"required"`
	Lesson   int               `json:"lesson" binding:"required"`
	Answers  map[string]string `json:"answers"`
}

type SubmitAttemptResult struct {
	AttemptID  string          `json:"attemptId"`
	Phase      model.QuizPhase `json:"phase"`
	Score      int             `json:"score"`
	TotalScore int             `json:"totalScore"`
	Percentage float64         `json:"percentage"`
	Passed     bool            `json:"passed"`   // 仅课前测：达到免修线
	IsUpdate   bool            `json:"isUpdate"` // 仅课前测：本次为覆盖写入
}

// Submit 提交一次测验：评分 → 按阶段写入 → 课前测跑免修判定
func (s *AttemptService) Submit(userID uint, req SubmitAttemptReq) (*SubmitAttemptResult, error) {
	if !req.QuizType.Valid() {
		return nil, util.Invalid("quizType", "must be html or css")
	}
	if !req.Phase.Valid() {
		return nil, util.Invalid("phase", "must be pre or post")
	}
	if req.Lesson < 1 || req.Lesson > util.LessonsPerCourse {
		return nil, util.Invalid("lesson", "out of range")
	}

	questions, err := s.QuestionRepo.ListByScope(req.QuizType, req.Phase, req.Lesson)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrQuestionNotFound
	}

	score := EvaluateAnswers(questions, req.Answers)

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		UserID:      userID,
		QuizType:    req.QuizType,
		Phase:       req.Phase,
		Lesson:      req.Lesson,
		Score:       score.Score,
		TotalScore:  score.TotalScore,
		Percentage:  score.Percentage,
		Answers:     answersJSON,
		CompletedAt: time.Now(),
	}

	result := &SubmitAttemptResult{
		Phase:      req.Phase,
		Score:      score.Score,
		TotalScore: score.TotalScore,
		Percentage: score.Percentage,
	}

	switch req.Phase {
	case model.PhasePre:
		attempt.Passed = score.Percentage >= util.SkipThreshold
		created, err := s.AttemptRepo.UpsertPretest(attempt)
		if err != nil {
			return nil, err
		}
		result.IsUpdate = !created
		result.Passed = attempt.Passed

		// 免修判定：达线则标记 skipped，已有标记不会被低分撤销
		if attempt.Passed {
			skipped := true
			if _, err := s.ProgressRepo.Apply(userID, req.QuizType, req.Lesson, nil, &skipped); err != nil {
				return nil, err
			}
		}
	case model.PhasePost:
		if err := s.AttemptRepo.CreatePosttest(attempt); err != nil {
			return nil, err
		}
	}

	monitoring.AttemptCounter.WithLabelValues(string(req.QuizType), string(req.Phase)).Inc()

	result.AttemptID = attempt.ID
	return result, nil
}

// DeleteAttempt 删除一条课后测记录
//
// 记录不存在或不属于请求者 → ErrAttemptNotFound；课前测历史不可删除。
func (s *AttemptService) DeleteAttempt(attemptID string, requestingUserID uint) error {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return err
	}
	if attempt.UserID != requestingUserID {
		return util.ErrAttemptNotFound
	}
	if attempt.Phase == model.PhasePre {
		return util.ErrPretestImmutable
	}
	return s.AttemptRepo.DeleteByID(attemptID)
}

// AttemptView 列表项：课后测记录附带“第 N 次”序号
type AttemptView struct {
	model.Attempt
	AttemptNo int `json:"attempt,omitempty"`
}

type ListAttemptsReq struct {
	UserID     uint
	QuizType   model.QuizType
	Phase      model.QuizPhase
	Lesson     int
	LatestOnly bool
}

// ListAttempts 查询测验记录，课次升序、课次内最新在前
//
// 课后测序号的唯一口径：同 (user, quizType, lesson) 的课后测按完成时间
// 升序编号，最早提交的是第 1 次。
func (s *AttemptService) ListAttempts(req ListAttemptsReq) ([]AttemptView, error) {
	if req.QuizType != "" && !req.QuizType.Valid() {
		return nil, util.Invalid("quizType", "must be html or css")
	}
	if req.Phase != "" && !req.Phase.Valid() {
		return nil, util.Invalid("phase", "must be pre or post")
	}

	attempts, err := s.AttemptRepo.List(repository.AttemptFilter{
		UserID:   req.UserID,
		QuizType: req.QuizType,
		Phase:    req.Phase,
		Lesson:   req.Lesson,
	})
	if err != nil {
		return nil, err
	}

	ordinals := posttestOrdinals(attempts)

	views := make([]AttemptView, 0, len(attempts))
	seen := make(map[string]bool)
	for _, a := range attempts {
		if req.LatestOnly {
			key := groupKey(a) + "|" + string(a.Phase)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		view := AttemptView{Attempt: a}
		if a.Phase == model.PhasePost {
			view.AttemptNo = ordinals[a.ID]
		}
		views = append(views, view)
	}
	return views, nil
}

func groupKey(a model.Attempt) string {
	return fmt.Sprintf("%s|%d|%d", a.QuizType, a.UserID, a.Lesson)
}

// posttestOrdinals 给课后测记录按完成时间升序编号（1 开始）
func posttestOrdinals(attempts []model.Attempt) map[string]int {
	groups := make(map[string][]model.Attempt)
	for _, a := range attempts {
		if a.Phase != model.PhasePost {
			continue
		}
		key := groupKey(a)
		groups[key] = append(groups[key], a)
	}

	ordinals := make(map[string]int, len(attempts))
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].CompletedAt.Equal(group[j].CompletedAt) {
				return group[i].CompletedAt.Before(group[j].CompletedAt)
			}
			if !group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].CreatedAt.Before(group[j].CreatedAt)
			}
			return group[i].ID < group[j].ID
		})
		for i, a := range group {
			ordinals[a.ID] = i + 1
		}
	}
	return ordinals
}
