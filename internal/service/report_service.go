package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"webstudy_backend/internal/config"
	"webstudy_backend/internal/model"
	"webstudy_backend/internal/repository"
	"webstudy_backend/internal/util"
	"webstudy_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ReportService 管理端统计报表：按人群过滤的进步统计和单人明细
type ReportService struct {
	UserRepo    *repository.UserRepository
	AttemptRepo *repository.AttemptRepository
	Stats       *StatsService
	Redis       *redis.Client
	Cfg         *config.Config
}

func NewReportService(
	userRepo *repository.UserRepository,
	attemptRepo *repository.AttemptRepository,
	stats *StatsService,
	rdb *redis.Client,
	cfg *config.Config,
) *ReportService {
	return &ReportService{
		UserRepo:    userRepo,
		AttemptRepo: attemptRepo,
		Stats:       stats,
		Redis:       rdb,
		Cfg:         cfg,
	}
}

type CohortFilter struct {
	QuizType     model.QuizType
	AcademicYear string
	Search       string
}

// StudentStatsRow 列表行：学生 + 每条课程轨道的统计
type StudentStatsRow struct {
	Student model.User                       `json:"student"`
	Stats   map[model.QuizType]*StudentStats `json:"stats"`
}

// ListStudents 人群统计列表
//
// 未指定课程时同时给出 HTML 与 CSS 两套统计；零记录学生返回全零统计。
// 结果整体进 Redis 短缓存，读者容忍缓存窗口内的旧值。
func (s *ReportService) ListStudents(filter CohortFilter) ([]StudentStatsRow, error) {
	if filter.QuizType != "" && !filter.QuizType.Valid() {
		return nil, util.Invalid("quizType", "must be html or css")
	}

	cacheKey := fmt.Sprintf("report:students:%s:%s:%s", filter.QuizType, filter.AcademicYear, filter.Search)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
			var rows []StudentStatsRow
			if json.Unmarshal([]byte(cached), &rows) == nil {
				return rows, nil
			}
		}
	}

	students, err := s.UserRepo.ListStudents(repository.StudentFilter{
		AcademicYear: filter.AcademicYear,
		Search:       filter.Search,
	})
	if err != nil {
		return nil, err
	}

	quizTypes := []model.QuizType{model.QuizTypeHTML, model.QuizTypeCSS}
	if filter.QuizType != "" {
		quizTypes = []model.QuizType{filter.QuizType}
	}

	rows := make([]StudentStatsRow, 0, len(students))
	for _, student := range students {
		row := StudentStatsRow{
			Student: student,
			Stats:   make(map[model.QuizType]*StudentStats, len(quizTypes)),
		}
		for _, qt := range quizTypes {
			stats, err := s.Stats.ComputeStats(student.ID, qt)
			if err != nil {
				return nil, err
			}
			row.Stats[qt] = stats
		}
		rows = append(rows, row)
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(rows); err == nil {
			ttl := time.Duration(s.Cfg.Report.CacheTTLSeconds) * time.Second
			if err := s.Redis.Set(context.Background(), cacheKey, raw, ttl).Err(); err != nil {
				logger.Log.Warn("report cache write failed", zap.Error(err))
			}
		}
	}

	return rows, nil
}

// LessonDetail 明细行：一个 (quizType, lesson) 的课前测和全部课后测
type LessonDetail struct {
	QuizType  model.QuizType  `json:"quizType"`
	Lesson    int             `json:"lesson"`
	Pretest   *model.Attempt  `json:"pretest"`
	Posttests []model.Attempt `json:"posttests"` // 最新在前
}

type StudentDetail struct {
	Student model.User     `json:"student"`
	Lessons []LessonDetail `json:"lessons"`
}

// GetStudentDetail 单个学生按 (quizType, lesson) 分组的作答明细
func (s *ReportService) GetStudentDetail(studentID uint, quizType model.QuizType) (*StudentDetail, error) {
	if quizType != "" && !quizType.Valid() {
		return nil, util.Invalid("quizType", "must be html or css")
	}

	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	attempts, err := s.AttemptRepo.List(repository.AttemptFilter{
		UserID:   studentID,
		QuizType: quizType,
	})
	if err != nil {
		return nil, err
	}

	type scope struct {
		quizType model.QuizType
		lesson   int
	}
	grouped := make(map[scope]*LessonDetail)
	order := make([]scope, 0)

	for _, a := range attempts {
		key := scope{a.QuizType, a.Lesson}
		detail, ok := grouped[key]
		if !ok {
			detail = &LessonDetail{QuizType: a.QuizType, Lesson: a.Lesson, Posttests: []model.Attempt{}}
			grouped[key] = detail
			order = append(order, key)
		}
		switch a.Phase {
		case model.PhasePre:
			pre := a
			detail.Pretest = &pre
		case model.PhasePost:
			// List 已按完成时间倒序返回，这里保持最新在前
			detail.Posttests = append(detail.Posttests, a)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].quizType != order[j].quizType {
			return order[i].quizType < order[j].quizType
		}
		return order[i].lesson < order[j].lesson
	})

	lessons := make([]LessonDetail, 0, len(order))
	for _, key := range order {
		lessons = append(lessons, *grouped[key])
	}

	return &StudentDetail{Student: *student, Lessons: lessons}, nil
}
