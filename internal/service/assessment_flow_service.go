package service

import (
	"webstudy_backend/internal/model"
	"webstudy_backend/internal/repository"
	"webstudy_backend/internal/util"
)

// 课前测进度状态
const (
	FlowNotStarted  = "not_started"
	FlowInProgress  = "in_progress"
	FlowAllComplete = "all_lessons_complete"
)

// AssessmentFlowService 课前测走查：推进当前课次、判定整课完成
//
// 当前课次和完成状态一律从已存的课前测记录现算，不信任客户端游标。
type AssessmentFlowService struct {
	AttemptRepo  *repository.AttemptRepository
	ProgressRepo *repository.LessonProgressRepository
}

func NewAssessmentFlowService(
	attemptRepo *repository.AttemptRepository,
	progressRepo *repository.LessonProgressRepository,
) *AssessmentFlowService {
	return &AssessmentFlowService{
		AttemptRepo:  attemptRepo,
		ProgressRepo: progressRepo,
	}
}

type AssessmentState struct {
	Status        string `json:"status"`
	CurrentLesson int    `json:"currentLesson"` // 全部完成时为 0
}

// NextPretestLesson 取第一个还没有课前测记录的课次
func (s *AssessmentFlowService) NextPretestLesson(userID uint, quizType model.QuizType) (*AssessmentState, error) {
	if !quizType.Valid() {
		return nil, util.Invalid("quizType", "must be html or css")
	}

	lessons, err := s.AttemptRepo.PretestLessons(userID, quizType)
	if err != nil {
		return nil, err
	}

	if len(lessons) == 0 {
		return &AssessmentState{Status: FlowNotStarted, CurrentLesson: 1}, nil
	}

	done := make(map[int]bool, len(lessons))
	for _, l := range lessons {
		done[l] = true
	}
	for lesson := 1; lesson <= util.LessonsPerCourse; lesson++ {
		if !done[lesson] {
			return &AssessmentState{Status: FlowInProgress, CurrentLesson: lesson}, nil
		}
	}

	return &AssessmentState{Status: FlowAllComplete}, nil
}

type CompletionStatus struct {
	Completed        bool  `json:"completed"`
	CompletedLessons []int `json:"completedLessons"`
	TotalLessons     int   `json:"totalLessons"`
}

// CompletionStatus 内容访问的唯一判据：1..N 每课都有课前测记录才算完成
func (s *AssessmentFlowService) CompletionStatus(userID uint, quizType model.QuizType) (*CompletionStatus, error) {
	if !quizType.Valid() {
		return nil, util.Invalid("quizType", "must be html or css")
	}

	lessons, err := s.AttemptRepo.PretestLessons(userID, quizType)
	if err != nil {
		return nil, err
	}

	done := make(map[int]bool, len(lessons))
	completed := make([]int, 0, len(lessons))
	for _, l := range lessons {
		if l >= 1 && l <= util.LessonsPerCourse && !done[l] {
			done[l] = true
			completed = append(completed, l)
		}
	}

	return &CompletionStatus{
		Completed:        len(completed) == util.LessonsPerCourse,
		CompletedLessons: completed,
		TotalLessons:     util.LessonsPerCourse,
	}, nil
}

type LessonProgressReq struct {
	QuizType  model.QuizType `json:"quizType" binding:"required"`
	Lesson    int            `json:"lesson" binding:"required"`
	Completed *bool          `json:"completed"`
	Skipped   *bool          `json:"skipped"`
}

// UpdateLessonProgress 课次进度 upsert：观看完成或免修标记
func (s *AssessmentFlowService) UpdateLessonProgress(userID uint, req LessonProgressReq) (*model.LessonProgress, error) {
	if !req.QuizType.Valid() {
		return nil, util.Invalid("quizType", "must be html or css")
	}
	if req.Lesson < 1 || req.Lesson > util.LessonsPerCourse {
		return nil, util.Invalid("lesson", "out of range")
	}
	return s.ProgressRepo.Apply(userID, req.QuizType, req.Lesson, req.Completed, req.Skipped)
}

// RemainingLessons 待观看课次 = 全部课次去掉已看完和免修的
//
// 任何内容下发请求都必须先过完成判据；未完成时返回 ErrPretestIncomplete，
// 调用方应把学生引导回课前测流程。
func (s *AssessmentFlowService) RemainingLessons(userID uint, quizType model.QuizType) ([]int, error) {
	status, err := s.CompletionStatus(userID, quizType)
	if err != nil {
		return nil, err
	}
	if !status.Completed {
		return nil, util.ErrPretestIncomplete
	}

	rows, err := s.ProgressRepo.ListByUser(userID, quizType)
	if err != nil {
		return nil, err
	}

	excluded := make(map[int]bool, len(rows))
	for _, row := range rows {
		if row.Completed || row.Skipped {
			excluded[row.Lesson] = true
		}
	}

	remaining := make([]int, 0, util.LessonsPerCourse)
	for lesson := 1; lesson <= util.LessonsPerCourse; lesson++ {
		if !excluded[lesson] {
			remaining = append(remaining, lesson)
		}
	}
	return remaining, nil
}
