package service

import (
	"encoding/json"
	"testing"

	"webstudy_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func makeQuestion(choices []string, correctIndex, score int) model.QuizQuestion {
	raw, _ := json.Marshal(choices)
	return model.QuizQuestion{
		Choices:      raw,
		CorrectIndex: correctIndex,
		Score:        score,
	}
}

func TestEvaluateAnswers(t *testing.T) {
	questions := []model.QuizQuestion{
		makeQuestion([]string{"A", "B", "C"}, 1, 1),
		makeQuestion([]string{"A", "B", "C"}, 2, 1),
		makeQuestion([]string{"A", "B", "C"}, 3, 1),
	}

	tests := []struct {
		name           string
		answers        map[string]string
		wantScore      int
		wantPercentage float64
	}{
		{
			name:           "全对",
			answers:        map[string]string{"1": "A", "2": "B", "3": "C"},
			wantScore:      3,
			wantPercentage: 100,
		},
		{
			name:           "部分正确带舍入",
			answers:        map[string]string{"1": "A", "2": "C", "3": "A"},
			wantScore:      1,
			wantPercentage: 33.33,
		},
		{
			name:           "未作答按错误计",
			answers:        map[string]string{"1": "A"},
			wantScore:      1,
			wantPercentage: 33.33,
		},
		{
			name:           "全未作答",
			answers:        nil,
			wantScore:      0,
			wantPercentage: 0,
		},
		{
			name:           "序号越界的作答被忽略",
			answers:        map[string]string{"9": "A", "0": "A"},
			wantScore:      0,
			wantPercentage: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EvaluateAnswers(questions, tt.answers)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, 3, result.TotalScore)
			assert.Equal(t, tt.wantPercentage, result.Percentage)
		})
	}
}

func TestEvaluateAnswers_WeightedScores(t *testing.T) {
	questions := []model.QuizQuestion{
		makeQuestion([]string{"A", "B"}, 1, 3),
		makeQuestion([]string{"A", "B"}, 2, 1),
	}

	result := EvaluateAnswers(questions, map[string]string{"1": "A", "2": "A"})
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 4, result.TotalScore)
	assert.Equal(t, 75.0, result.Percentage)
}

func TestEvaluateAnswers_EmptyQuestionSet(t *testing.T) {
	result := EvaluateAnswers(nil, map[string]string{"1": "A"})
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.TotalScore)
	assert.Equal(t, 0.0, result.Percentage)
}

func TestEvaluateAnswers_CorruptChoices(t *testing.T) {
	questions := []model.QuizQuestion{
		{Choices: json.RawMessage(`not-json`), CorrectIndex: 1, Score: 1},
	}

	// 选项损坏时这道题没人能得分，但总分照常累计
	result := EvaluateAnswers(questions, map[string]string{"1": "A"})
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 1, result.TotalScore)
}
