package app

import (
	"firstaid_backend/docs"
	"firstaid_backend/internal/config"
	"firstaid_backend/internal/middleware"
	"firstaid_backend/internal/model"
	"firstaid_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 学习者接口
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 主题与学习模块
		authGroup.GET("/topics", c.learning.GetTopics)
		authGroup.GET("/learning/modules/:id", c.learning.GetModule)
		authGroup.POST("/learning/modules/:id/complete", c.learning.CompleteModule)
		authGroup.GET("/progress/overview", c.learning.GetOverview)

		// 考试
		authGroup.GET("/exams/:id", c.exam.GetExam)
		authGroup.GET("/exams/:id/unlocked", c.exam.IsUnlocked)
		authGroup.POST("/exams/:id/submit", c.exam.SubmitExam)

		// 徽章
		authGroup.GET("/badges", c.badge.GetUserBadges)
		authGroup.POST("/badges/reconcile", c.badge.Reconcile)
		authGroup.GET("/badges/leaderboard", c.badge.GetLeaderboard)

		// 伤情分诊
		authGroup.POST("/triage/classify", c.triage.Classify)
	}

	// 教员/管理员接口
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Instructor))
	{
		adminGroup.POST("/topics", c.catalog.CreateTopic)
		adminGroup.PUT("/topics/:id", c.catalog.UpdateTopic)
		adminGroup.POST("/modules", c.catalog.CreateModule)
		adminGroup.POST("/modules/:id/video", c.catalog.UploadModuleVideo)
		adminGroup.POST("/exams", c.catalog.CreateExam)
		adminGroup.POST("/exams/:id/questions", c.catalog.AddQuestion)
		adminGroup.PUT("/questions/:id", c.catalog.UpdateQuestion)
		adminGroup.DELETE("/questions/:id", c.catalog.DeleteQuestion)
		adminGroup.POST("/badges", c.catalog.CreateBadge)
	}
}
