package controller

import (
	"webstudy_backend/internal/model"
	"webstudy_backend/internal/service"
	"webstudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportController 管理端统计报表
type ReportController struct {
	Service *service.ReportService
}

func NewReportController(svc *service.ReportService) *ReportController {
	return &ReportController{Service: svc}
}

// @Summary 学生统计列表
// @Description 按课程轨道/学年/姓名邮箱过滤；无记录学生也会出现在列表里
// @Tags 报表模块
// @Produce json
// @Security ApiKeyAuth
// @Param quizType query string false "课程轨道 html/css，缺省时两套都返回"
// @Param academicYear query string false "学年"
// @Param search query string false "姓名或邮箱模糊匹配"
// @Success 200 {object} util.Response
// @Router /api/admin/report/students [get]
func (c *ReportController) ListStudents(ctx *gin.Context) {
	rows, err := c.Service.ListStudents(service.CohortFilter{
		QuizType:     model.QuizType(ctx.Query("quizType")),
		AcademicYear: ctx.Query("academicYear"),
		Search:       ctx.Query("search"),
	})
	if err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": rows, "total": len(rows)})
}

// @Summary 单个学生作答明细
// @Description 按 (课程轨道, 课次) 分组，课前测一条加全部课后测
// @Tags 报表模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "学生ID"
// @Param quizType query string false "课程轨道 html/css"
// @Success 200 {object} util.Response
// @Router /api/admin/report/students/{id} [get]
func (c *ReportController) GetStudentDetail(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	detail, err := c.Service.GetStudentDetail(id, model.QuizType(ctx.Query("quizType")))
	if err != nil {
		util.MapError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}
