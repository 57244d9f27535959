package service

import (
	"sort"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/repository"
	"webstudy_backend/internal/util"
)

// StatsService 单个学生在一条课程轨道上的进步统计
type StatsService struct {
	AttemptRepo *repository.AttemptRepository
}

func NewStatsService(attemptRepo *repository.AttemptRepository) *StatsService {
	return &StatsService{AttemptRepo: attemptRepo}
}

// StudentStats 课前/课后均分与提升幅度
//
// avgPosttest 的分母只计有配对课后测的课次，没有课后测的课次不按 0 分
// 摊入；posttestAttempts 统计全部课后测行数，不按课次去重。
type StudentStats struct {
	TotalLessons       int     `json:"totalLessons"`
	CompletedPosttests int     `json:"completedPosttests"`
	AvgPretest         float64 `json:"avgPretest"`
	AvgPosttest        float64 `json:"avgPosttest"`
	Improvement        float64 `json:"improvement"`
	PosttestAttempts   int     `json:"posttestAttempts"`
}

// ComputeStats 对每个课前测配对“同课次最近一次课后测”，再求均值
//
// 输出与存储迭代顺序无关。
func (s *StatsService) ComputeStats(userID uint, quizType model.QuizType) (*StudentStats, error) {
	if !quizType.Valid() {
		return nil, util.Invalid("quizType", "must be html or css")
	}

	attempts, err := s.AttemptRepo.List(repository.AttemptFilter{
		UserID:   userID,
		QuizType: quizType,
	})
	if err != nil {
		return nil, err
	}

	pretests := make(map[int]model.Attempt)
	posttests := make(map[int][]model.Attempt)
	posttestAttempts := 0

	for _, a := range attempts {
		switch a.Phase {
		case model.PhasePre:
			pretests[a.Lesson] = a
		case model.PhasePost:
			posttests[a.Lesson] = append(posttests[a.Lesson], a)
			posttestAttempts++
		}
	}

	lessons := make([]int, 0, len(pretests))
	for lesson := range pretests {
		lessons = append(lessons, lesson)
	}
	sort.Ints(lessons)

	var preSum, postSum float64
	paired := 0
	for _, lesson := range lessons {
		preSum += pretests[lesson].Percentage

		latest := latestAttempt(posttests[lesson])
		if latest != nil {
			postSum += latest.Percentage
			paired++
		}
	}

	stats := &StudentStats{
		TotalLessons:       util.LessonsPerCourse,
		CompletedPosttests: paired,
		PosttestAttempts:   posttestAttempts,
	}
	if len(lessons) > 0 {
		stats.AvgPretest = util.Round2(preSum / float64(len(lessons)))
	}
	if paired > 0 {
		stats.AvgPosttest = util.Round2(postSum / float64(paired))
	}
	stats.Improvement = util.Round2(stats.AvgPosttest - stats.AvgPretest)

	return stats, nil
}

// latestAttempt 取完成时间最晚的一条；时间持平时按创建时间、再按 id 兜底
func latestAttempt(attempts []model.Attempt) *model.Attempt {
	if len(attempts) == 0 {
		return nil
	}
	latest := attempts[0]
	for _, a := range attempts[1:] {
		switch {
		case a.CompletedAt.After(latest.CompletedAt):
			latest = a
		case a.CompletedAt.Equal(latest.CompletedAt):
			if a.CreatedAt.After(latest.CreatedAt) ||
				(a.CreatedAt.Equal(latest.CreatedAt) && a.ID > latest.ID) {
				latest = a
			}
		}
	}
	return &latest
}
