package model

import (
	"encoding/json"
	"time"
)

// Attempt 一次测验提交的评分记录
//
// 写入规则：phase=pre 时每个 (user, quizType, lesson) 至多一行，重复提交
// 原地覆盖；phase=post 只追加，行一经写入不再更新（只允许学生本人删除）。
// swagger:model Attempt
type Attempt struct {
	UUIDBase
	UserID      uint            `gorm:"not null;index:idx_attempt_scope" json:"userId"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	QuizType    QuizType        `gorm:"size:10;not null;index:idx_attempt_scope" json:"quizType"`
	Phase       QuizPhase       `gorm:"size:10;not null;index:idx_attempt_scope" json:"phase"`
	Lesson      int             `gorm:"not null;index:idx_attempt_scope" json:"lesson"`
	Score       int             `gorm:"default:0" json:"score"`
	TotalScore  int             `gorm:"default:0" json:"totalScore"`
	Percentage  float64         `gorm:"default:0" json:"percentage"`
	Passed      bool            `gorm:"default:false" json:"passed"` // 课前测达到免修线
	Answers     json.RawMessage `gorm:"type:json" json:"answers"`    // JSON: map[题目序号]所选选项文本
	CompletedAt time.Time       `gorm:"index" json:"completedAt"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// AnswerMap 解析已存储的作答，键为题目在题组中的序号（从 1 开始）
func (a *Attempt) AnswerMap() map[string]string {
	answers := make(map[string]string)
	if len(a.Answers) > 0 {
		_ = json.Unmarshal(a.Answers, &answers)
	}
	return answers
}
