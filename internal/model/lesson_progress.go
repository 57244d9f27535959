package model

// LessonProgress 每个 (user, quizType, lesson) 一行的课次进度
//
// skipped=true 表示课前测达到免修线，该课次不再出现在待观看列表；
// 免修标记一经授予不会被后续低分重考自动撤销。
// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	UserID    uint     `gorm:"not null;uniqueIndex:idx_progress_scope" json:"userId"`
	QuizType  QuizType `gorm:"size:10;not null;uniqueIndex:idx_progress_scope" json:"quizType"`
	Lesson    int      `gorm:"not null;uniqueIndex:idx_progress_scope" json:"lesson"`
	Completed bool     `gorm:"default:false" json:"completed"`
	Skipped   bool     `gorm:"default:false" json:"skipped"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
