package controller

import (
	"webstudy_backend/internal/model"
	"webstudy_backend/internal/service"
	"webstudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AssessmentController 课前测走查与完成判定
type AssessmentController struct {
	Flow  *service.AssessmentFlowService
	Stats *service.StatsService
}

func NewAssessmentController(flow *service.AssessmentFlowService, stats *service.StatsService) *AssessmentController {
	return &AssessmentController{Flow: flow, Stats: stats}
}

// @Summary 课前测走查状态
// @Description 返回下一个待测课次；全部完成时提示进入课程内容
// @Tags 测评流程模块
// @Produce json
// @Security ApiKeyAuth
// @Param quizType query string true "课程轨道 html/css"
// @Success 200 {object} util.Response
// @Router /api/assessment/state [get]
func (c *AssessmentController) GetState(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	state, err := c.Flow.NextPretestLesson(claims.UserID, model.QuizType(ctx.Query("quizType")))
	if err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, state)
}

// @Summary 课前测完成判定
// @Description 内容访问的唯一判据：每个课次都有课前测记录才算完成
// @Tags 测评流程模块
// @Produce json
// @Security ApiKeyAuth
// @Param quizType query string true "课程轨道 html/css"
// @Success 200 {object} util.Response
// @Router /api/assessment/completion [get]
func (c *AssessmentController) GetCompletion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.Flow.CompletionStatus(claims.UserID, model.QuizType(ctx.Query("quizType")))
	if err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, status)
}

// @Summary 个人进步统计
// @Tags 测评流程模块
// @Produce json
// @Security ApiKeyAuth
// @Param quizType query string true "课程轨道 html/css"
// @Success 200 {object} util.Response
// @Router /api/assessment/stats [get]
func (c *AssessmentController) GetMyStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.Stats.ComputeStats(claims.UserID, model.QuizType(ctx.Query("quizType")))
	if err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
