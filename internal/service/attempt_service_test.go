package service

import (
	"testing"
	"time"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_PretestPassGrantsSkip(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	seedQuestions(t, db, model.QuizTypeHTML, model.PhasePre, 1, 5)

	// 4/5 正确 = 80%，正好踩线
	result, err := svc.Submit(7, SubmitAttemptReq{
		QuizType: model.QuizTypeHTML,
		Phase:    model.PhasePre,
		Lesson:   1,
		Answers:  map[string]string{"1": "A", "2": "A", "3": "A", "4": "A", "5": "B"},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Score)
	assert.Equal(t, 80.0, result.Percentage)
	assert.True(t, result.Passed)
	assert.False(t, result.IsUpdate)

	progress, err := svc.ProgressRepo.Find(7, model.QuizTypeHTML, 1)
	require.NoError(t, err)
	assert.True(t, progress.Skipped)
}

func TestSubmit_PretestBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	seedQuestions(t, db, model.QuizTypeHTML, model.PhasePre, 1, 5)

	result, err := svc.Submit(7, SubmitAttemptReq{
		QuizType: model.QuizTypeHTML,
		Phase:    model.PhasePre,
		Lesson:   1,
		Answers:  map[string]string{"1": "A", "2": "A", "3": "A"},
	})
	require.NoError(t, err)

	assert.Equal(t, 60.0, result.Percentage)
	assert.False(t, result.Passed)

	// 未达线不应创建进度行
	_, err = svc.ProgressRepo.Find(7, model.QuizTypeHTML, 1)
	assert.Error(t, err)
}

func TestSubmit_PretestResubmitOverwrites(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	seedQuestions(t, db, model.QuizTypeHTML, model.PhasePre, 1, 5)

	high, err := svc.Submit(7, SubmitAttemptReq{
		QuizType: model.QuizTypeHTML,
		Phase:    model.PhasePre,
		Lesson:   1,
		Answers:  map[string]string{"1": "A", "2": "A", "3": "A", "4": "A", "5": "A"},
	})
	require.NoError(t, err)
	require.True(t, high.Passed)

	low, err := svc.Submit(7, SubmitAttemptReq{
		QuizType: model.QuizTypeHTML,
		Phase:    model.PhasePre,
		Lesson:   1,
		Answers:  map[string]string{"1": "A"},
	})
	require.NoError(t, err)

	assert.True(t, low.IsUpdate)
	assert.Equal(t, high.AttemptID, low.AttemptID, "覆盖写入必须保留原记录 id")
	assert.False(t, low.Passed)

	var count int64
	require.NoError(t, db.Model(&model.Attempt{}).
		Where("user_id = ? AND phase = ?", 7, model.PhasePre).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// 低分重测不撤销已授予的免修
	progress, err := svc.ProgressRepo.Find(7, model.QuizTypeHTML, 1)
	require.NoError(t, err)
	assert.True(t, progress.Skipped)

	// 库里留的是最新一次的分数
	var stored model.Attempt
	require.NoError(t, db.First(&stored, "id = ?", high.AttemptID).Error)
	assert.Equal(t, 20.0, stored.Percentage)
}

func TestSubmit_PosttestAppends(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	seedQuestions(t, db, model.QuizTypeCSS, model.PhasePost, 3, 4)

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(7, SubmitAttemptReq{
			QuizType: model.QuizTypeCSS,
			Phase:    model.PhasePost,
			Lesson:   3,
			Answers:  map[string]string{"1": "A"},
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&model.Attempt{}).
		Where("user_id = ? AND phase = ?", 7, model.PhasePost).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestSubmit_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)

	tests := []struct {
		name string
		req  SubmitAttemptReq
	}{
		{"非法课程轨道", SubmitAttemptReq{QuizType: "java", Phase: model.PhasePre, Lesson: 1}},
		{"非法阶段", SubmitAttemptReq{QuizType: model.QuizTypeHTML, Phase: "mid", Lesson: 1}},
		{"课次为零", SubmitAttemptReq{QuizType: model.QuizTypeHTML, Phase: model.PhasePre, Lesson: 0}},
		{"课次越界", SubmitAttemptReq{QuizType: model.QuizTypeHTML, Phase: model.PhasePre, Lesson: 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(7, tt.req)
			assert.True(t, util.IsValidationError(err))
		})
	}
}

func TestSubmit_EmptyQuestionSet(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)

	_, err := svc.Submit(7, SubmitAttemptReq{
		QuizType: model.QuizTypeHTML,
		Phase:    model.PhasePre,
		Lesson:   2,
	})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestDeleteAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	now := time.Now()

	post := insertAttempt(t, db, 7, model.QuizTypeHTML, model.PhasePost, 1, 50, now)
	pre := insertAttempt(t, db, 7, model.QuizTypeHTML, model.PhasePre, 1, 50, now)

	t.Run("他人记录按不存在处理", func(t *testing.T) {
		err := svc.DeleteAttempt(post.ID, 99)
		assert.ErrorIs(t, err, util.ErrAttemptNotFound)
	})

	t.Run("课前测不可删除", func(t *testing.T) {
		err := svc.DeleteAttempt(pre.ID, 7)
		assert.ErrorIs(t, err, util.ErrPretestImmutable)
	})

	t.Run("本人课后测可删除", func(t *testing.T) {
		require.NoError(t, svc.DeleteAttempt(post.ID, 7))
		_, err := svc.AttemptRepo.FindByID(post.ID)
		assert.ErrorIs(t, err, util.ErrAttemptNotFound)
	})

	t.Run("不存在的记录", func(t *testing.T) {
		err := svc.DeleteAttempt("no-such-id", 7)
		assert.ErrorIs(t, err, util.ErrAttemptNotFound)
	})
}

func TestListAttempts_PosttestOrdinals(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// 乱序插入，序号必须按完成时间升序编
	second := insertAttempt(t, db, 7, model.QuizTypeHTML, model.PhasePost, 1, 70, base.Add(time.Hour))
	first := insertAttempt(t, db, 7, model.QuizTypeHTML, model.PhasePost, 1, 50, base)
	third := insertAttempt(t, db, 7, model.QuizTypeHTML, model.PhasePost, 1, 90, base.Add(2*time.Hour))
	otherLesson := insertAttempt(t, db, 7, model.QuizTypeHTML, model.PhasePost, 2, 60, base)

	views, err := svc.ListAttempts(ListAttemptsReq{UserID: 7, Phase: model.PhasePost})
	require.NoError(t, err)
	require.Len(t, views, 4)

	ordinals := make(map[string]int)
	for _, v := range views {
		ordinals[v.ID] = v.AttemptNo
	}
	assert.Equal(t, 1, ordinals[first.ID])
	assert.Equal(t, 2, ordinals[second.ID])
	assert.Equal(t, 3, ordinals[third.ID])
	assert.Equal(t, 1, ordinals[otherLesson.ID], "序号按课次分组独立计数")

	// 列表顺序：课次升序、课次内最新在前
	assert.Equal(t, third.ID, views[0].ID)
	assert.Equal(t, second.ID, views[1].ID)
	assert.Equal(t, first.ID, views[2].ID)
	assert.Equal(t, otherLesson.ID, views[3].ID)
}

func TestListAttempts_LatestOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	insertAttempt(t, db, 7, model.QuizTypeHTML, model.PhasePost, 1, 50, base)
	latest := insertAttempt(t, db, 7, model.QuizTypeHTML, model.PhasePost, 1, 90, base.Add(time.Hour))
	pre := insertAttempt(t, db, 7, model.QuizTypeHTML, model.PhasePre, 1, 40, base)

	views, err := svc.ListAttempts(ListAttemptsReq{UserID: 7, LatestOnly: true})
	require.NoError(t, err)
	require.Len(t, views, 2, "pre 和 post 各留最新一条")

	ids := []string{views[0].ID, views[1].ID}
	assert.Contains(t, ids, latest.ID)
	assert.Contains(t, ids, pre.ID)

	// 被保留的课后测仍是按全部历史编出来的序号
	for _, v := range views {
		if v.ID == latest.ID {
			assert.Equal(t, 2, v.AttemptNo)
		}
	}
}

func TestListAttempts_FilterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)

	_, err := svc.ListAttempts(ListAttemptsReq{UserID: 7, QuizType: "java"})
	assert.True(t, util.IsValidationError(err))

	_, err = svc.ListAttempts(ListAttemptsReq{UserID: 7, Phase: "mid"})
	assert.True(t, util.IsValidationError(err))
}
