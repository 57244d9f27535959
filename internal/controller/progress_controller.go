package controller

import (
	"errors"
	"net/http"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/service"
	"webstudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProgressController 课次进度与待观看列表
type ProgressController struct {
	Flow *service.AssessmentFlowService
}

func NewProgressController(flow *service.AssessmentFlowService) *ProgressController {
	return &ProgressController{Flow: flow}
}

// @Summary 更新课次进度
// @Description 观看完成 / 免修标记 upsert；免修一经授予不可自动撤销
// @Tags 课程进度模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.LessonProgressReq true "进度变更"
// @Success 200 {object} util.Response
// @Router /api/progress [post]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LessonProgressReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.Flow.UpdateLessonProgress(claims.UserID, req)
	if err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// @Summary 待观看课次列表
// @Description 课前测未全部完成时拒绝访问并引导回测评流程
// @Tags 课程进度模块
// @Produce json
// @Security ApiKeyAuth
// @Param quizType query string true "课程轨道 html/css"
// @Success 200 {object} util.Response
// @Router /api/progress/remaining [get]
func (c *ProgressController) GetRemainingLessons(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quizType := model.QuizType(ctx.Query("quizType"))
	remaining, err := c.Flow.RemainingLessons(claims.UserID, quizType)
	if err != nil {
		if errors.Is(err, util.ErrPretestIncomplete) {
			// 告诉前端跳回课前测，而不是笼统的 403
			state, stateErr := c.Flow.NextPretestLesson(claims.UserID, quizType)
			if stateErr == nil {
				ctx.JSON(http.StatusForbidden, util.Response{
					Code:    http.StatusForbidden,
					Message: err.Error(),
					Data:    gin.H{"redirect": "pretest", "flow": state},
				})
				return
			}
		}
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"lessons": remaining, "total": len(remaining)})
}
