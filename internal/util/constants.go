package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	// LessonsPerCourse 每条课程轨道的课次数
	LessonsPerCourse = 10

	// SkipThreshold 课前测免修线（百分比）
	SkipThreshold = 80.0
)
