// 手动触发免修标记回填脚本
//
// 免修判定在课前测提交时实时执行。此脚本用于存量数据：例如从旧系统导入
// 成绩后，把所有达线（>=80%）的课前测记录补上 skipped 标记。
//
// 用法: go run scripts/backfill_skips.go

package main

import (
	"log"
	"os"

	"webstudy_backend/internal/config"
	"webstudy_backend/internal/model"
	"webstudy_backend/internal/repository"
	"webstudy_backend/internal/util"
	"webstudy_backend/pkg/database"
	"webstudy_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var passed []model.Attempt
	err = db.Where("phase = ? AND percentage >= ?", model.PhasePre, util.SkipThreshold).
		Find(&passed).Error
	if err != nil {
		log.Fatalf("查询达线课前测失败: %v", err)
	}

	progressRepo := repository.NewLessonProgressRepository(db)
	skipped := true
	granted := 0
	for _, attempt := range passed {
		if _, err := progressRepo.Apply(attempt.UserID, attempt.QuizType, attempt.Lesson, nil, &skipped); err != nil {
			log.Printf("回填失败 user=%d %s lesson=%d: %v", attempt.UserID, attempt.QuizType, attempt.Lesson, err)
			continue
		}
		granted++
	}

	log.Printf("回填完成：检查 %d 条达线记录，写入 %d 条免修标记", len(passed), granted)
}
