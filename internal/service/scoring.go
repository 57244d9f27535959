package service

import (
	"strconv"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/util"
)

// ScoreResult 一次测验的评分结果
type ScoreResult struct {
	Score      int     `json:"score"`
	TotalScore int     `json:"totalScore"`
	Percentage float64 `json:"percentage"`
}

// EvaluateAnswers 纯函数评分，不触碰存储
//
// answers 的键是题目在题组中的序号（从 1 开始），值是所选选项文本。
// 未作答按错误计；totalScore 为 0 时百分比取 0，避免除零。
func EvaluateAnswers(questions []model.QuizQuestion, answers map[string]string) ScoreResult {
	result := ScoreResult{}

	for i, q := range questions {
		result.TotalScore += q.Score

		submitted, ok := answers[strconv.Itoa(i+1)]
		if !ok {
			continue
		}
		correct := q.CorrectChoice()
		if correct != "" && submitted == correct {
			result.Score += q.Score
		}
	}

	if result.TotalScore > 0 {
		result.Percentage = util.Round2(float64(result.Score) / float64(result.TotalScore) * 100)
	}

	return result
}
