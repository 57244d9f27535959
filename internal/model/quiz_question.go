package model

import "encoding/json"

// QuizType 课程轨道：HTML 或 CSS，与课次编号正交
type QuizType string

const (
	QuizTypeHTML QuizType = "html"
	QuizTypeCSS  QuizType = "css"
)

func (t QuizType) Valid() bool {
	return t == QuizTypeHTML || t == QuizTypeCSS
}

// QuizPhase 测验阶段：课前 pretest / 课后 posttest
type QuizPhase string

const (
	PhasePre  QuizPhase = "pre"
	PhasePost QuizPhase = "post"
)

func (p QuizPhase) Valid() bool {
	return p == PhasePre || p == PhasePost
}

// QuizQuestion 题库中的一道题，归属于 (quizType, phase, lesson) 题组
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizType     QuizType        `gorm:"size:10;not null;index:idx_question_scope" json:"quizType"`
	Phase        QuizPhase       `gorm:"size:10;not null;index:idx_question_scope" json:"phase"`
	Lesson       int             `gorm:"not null;index:idx_question_scope" json:"lesson"`
	Question     string          `gorm:"type:text;not null" json:"question"`
	Choices      json.RawMessage `gorm:"type:json" json:"choices"`      // JSON: []string
	CorrectIndex int             `gorm:"not null" json:"correctIndex"`  // 1 开始的正确选项序号
	Score        int             `gorm:"default:1" json:"score"`        // 题目权重分
	Order        int             `gorm:"default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// ChoiceList 解析 Choices 字段，损坏的 JSON 视为空选项
func (q *QuizQuestion) ChoiceList() []string {
	var choices []string
	if len(q.Choices) > 0 {
		_ = json.Unmarshal(q.Choices, &choices)
	}
	return choices
}

// CorrectChoice 返回正确选项文本；序号越界时返回空串
func (q *QuizQuestion) CorrectChoice() string {
	choices := q.ChoiceList()
	if q.CorrectIndex < 1 || q.CorrectIndex > len(choices) {
		return ""
	}
	return choices[q.CorrectIndex-1]
}
