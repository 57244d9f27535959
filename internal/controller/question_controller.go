package controller

import (
	"strconv"

	"webstudy_backend/internal/model"
	"webstudy_backend/internal/service"
	"webstudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuestionController 题库维护（管理端）
type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary 创建题目
// @Tags 题库模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuestionReq true "题目内容"
// @Success 201 {object} util.Response
// @Router /api/admin/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Service.CreateQuestion(req)
	if err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// @Summary 题组列表
// @Tags 题库模块
// @Produce json
// @Security ApiKeyAuth
// @Param quizType query string true "课程轨道 html/css"
// @Param phase query string true "阶段 pre/post"
// @Param lesson query int true "课次 1-10"
// @Success 200 {object} util.Response
// @Router /api/admin/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	lesson, _ := strconv.Atoi(ctx.Query("lesson"))

	questions, err := c.Service.ListQuestions(
		model.QuizType(ctx.Query("quizType")),
		model.QuizPhase(ctx.Query("phase")),
		lesson,
	)
	if err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": questions, "total": len(questions)})
}

// @Summary 更新题目
// @Tags 题库模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.QuestionReq true "题目内容"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Service.UpdateQuestion(id, req)
	if err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// @Summary 删除题目
// @Tags 题库模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.Service.DeleteQuestion(id); err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary 批量删除题目
// @Description 各删除相互独立，返回成功/失败条数，不回滚已成功部分
// @Tags 题库模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body map[string][]uint true "题目ID列表 {'questionIds': [1,2,3]}"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/batch-delete [post]
func (c *QuestionController) BulkDeleteQuestions(ctx *gin.Context) {
	var req struct {
		QuestionIDs []uint `json:"questionIds" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result := c.Service.BulkDeleteQuestions(req.QuestionIDs)
	util.Success(ctx, result)
}
