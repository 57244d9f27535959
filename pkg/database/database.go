package database

import (
	"encoding/json"
	"fmt"
	"log"

	"webstudy_backend/internal/config"
	"webstudy_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 建立 MySQL 连接；migrate 为真时执行表结构迁移并补种子数据
func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.QuizQuestion{},
			&model.Attempt{},
			&model.LessonProgress{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")

		seedQuestions(db)
	}

	return db, nil
}

// seedQuestions 题库为空时插入第一课的示例题组，方便本地联调
func seedQuestions(db *gorm.DB) {
	var count int64
	db.Model(&model.QuizQuestion{}).Count(&count)
	if count != 0 {
		return
	}

	choices := func(opts ...string) json.RawMessage {
		raw, _ := json.Marshal(opts)
		return raw
	}

	defaults := []model.QuizQuestion{
		{
			QuizType: model.QuizTypeHTML, Phase: model.PhasePre, Lesson: 1,
			Question:     "HTML 文档的根元素是哪一个？",
			Choices:      choices("<html>", "<body>", "<head>", "<root>"),
			CorrectIndex: 1, Score: 1, Order: 1,
		},
		{
			QuizType: model.QuizTypeHTML, Phase: model.PhasePost, Lesson: 1,
			Question:     "哪个标签用于定义文档的主体内容？",
			Choices:      choices("<main>", "<body>", "<section>", "<div>"),
			CorrectIndex: 2, Score: 1, Order: 1,
		},
		{
			QuizType: model.QuizTypeCSS, Phase: model.PhasePre, Lesson: 1,
			Question:     "CSS 中设置文字颜色使用哪个属性？",
			Choices:      choices("font-color", "text-color", "color", "foreground"),
			CorrectIndex: 3, Score: 1, Order: 1,
		},
		{
			QuizType: model.QuizTypeCSS, Phase: model.PhasePost, Lesson: 1,
			Question:     "哪种选择器的优先级最高？",
			Choices:      choices("标签选择器", "类选择器", "ID 选择器", "通配选择器"),
			CorrectIndex: 3, Score: 1, Order: 1,
		},
	}

	for i := range defaults {
		db.Create(&defaults[i])
	}
}
