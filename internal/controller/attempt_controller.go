package controller

import (
	"strconv"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/service"
	"webstudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
	Flow    *service.AssessmentFlowService
}

func NewAttemptController(svc *service.AttemptService, flow *service.AssessmentFlowService) *AttemptController {
	return &AttemptController{Service: svc, Flow: flow}
}

// @Summary 提交测验
// @Description 课前测同课次重复提交覆盖旧记录；课后测每次新增一条
// @Tags 测验模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitAttemptReq true "作答内容"
// @Success 201 {object} util.Response
// @Router /api/attempts [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAttemptReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Submit(claims.UserID, req)
	if err != nil {
		util.MapError(ctx, err)
		return
	}

	// 课前测提交后顺带返回走查状态，前端据此跳下一课或进入内容页
	resp := gin.H{"result": result}
	if req.Phase == model.PhasePre {
		if state, err := c.Flow.NextPretestLesson(claims.UserID, req.QuizType); err == nil {
			resp["flow"] = state
		}
	}

	util.Created(ctx, resp)
}

// @Summary 查询测验记录
// @Description 课次升序、课次内最新在前；课后测附带第 N 次序号
// @Tags 测验模块
// @Produce json
// @Security ApiKeyAuth
// @Param quizType query string false "课程轨道 html/css"
// @Param phase query string false "阶段 pre/post"
// @Param lesson query int false "课次 1-10"
// @Param latestOnly query bool false "每组只取最新一条"
// @Success 200 {object} util.Response
// @Router /api/attempts [get]
func (c *AttemptController) ListAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lesson, _ := strconv.Atoi(ctx.Query("lesson"))
	latestOnly, _ := strconv.ParseBool(ctx.DefaultQuery("latestOnly", "false"))

	views, err := c.Service.ListAttempts(service.ListAttemptsReq{
		UserID:     claims.UserID,
		QuizType:   model.QuizType(ctx.Query("quizType")),
		Phase:      model.QuizPhase(ctx.Query("phase")),
		Lesson:     lesson,
		LatestOnly: latestOnly,
	})
	if err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": views, "total": len(views)})
}

// @Summary 删除一条课后测记录
// @Description 课前测历史不可删除；只能删除本人的记录
// @Tags 测验模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "记录ID"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id} [delete]
func (c *AttemptController) DeleteAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := ctx.Param("id")
	if err := c.Service.DeleteAttempt(id, claims.UserID); err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}
