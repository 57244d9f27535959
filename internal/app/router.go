package app

import (
	"webstudy_backend/docs"
	"webstudy_backend/internal/config"
	"webstudy_backend/internal/middleware"
	"webstudy_backend/internal/model"
	"webstudy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	// 测验提交与历史
	rg.POST("/attempts", c.attempt.SubmitAttempt)
	rg.GET("/attempts", c.attempt.ListAttempts)
	rg.DELETE("/attempts/:id", c.attempt.DeleteAttempt)

	// 课前测走查与完成判定
	rg.GET("/assessment/state", c.assessment.GetState)
	rg.GET("/assessment/completion", c.assessment.GetCompletion)
	rg.GET("/assessment/stats", c.assessment.GetMyStats)

	// 课程进度
	rg.POST("/progress", c.progress.UpdateProgress)
	rg.GET("/progress/remaining", c.progress.GetRemainingLessons)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(a.Config),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		// 题库维护
		admin.POST("/questions", c.question.CreateQuestion)
		admin.GET("/questions", c.question.ListQuestions)
		admin.PUT("/questions/:id", c.question.UpdateQuestion)
		admin.DELETE("/questions/:id", c.question.DeleteQuestion)
		admin.POST("/questions/batch-delete", c.question.BulkDeleteQuestions)

		// 统计报表
		admin.GET("/report/students", c.report.ListStudents)
		admin.GET("/report/students/:id", c.report.GetStudentDetail)
	}
}
