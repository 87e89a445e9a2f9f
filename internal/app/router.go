package app

import (
	"course_hub_backend/docs"
	"course_hub_backend/internal/config"
	"course_hub_backend/internal/middleware"
	"course_hub_backend/pkg/monitoring"
	"course_hub_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 课程：游客可浏览，登录用户顺带记录进度
	a.registerCourseRoutes(router, c, cfg)

	// 3. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.POST("/courses/:courseId/lessons/:lessonId/complete", c.course.CompleteLesson)
	}

	// 4. 管理后台
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/search", c.search.Search)
		public.POST("/contact", c.contact.Submit)

		// 助教接口单独限流，每次请求都会占用模型推理
		chatLimit := cfg.RateLimit.ChatPerMinute
		if chatLimit <= 0 {
			chatLimit = 20
		}
		public.POST("/chat", security.RateLimiter(chatLimit, time.Minute), c.chat.Chat)
	}
}

func (a *App) registerCourseRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	courses := router.Group("/api/courses")
	courses.Use(middleware.TryAuthMiddleware(cfg))
	{
		courses.GET("", c.course.ListCourses)
		courses.GET("/:courseId", c.course.ShowCourse)
		courses.GET("/:courseId/lessons/:lessonId", c.course.ShowLesson)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware(cfg))
	{
		adminGroup.GET("/resources", c.admin.ListResources)
		adminGroup.POST("/uploads/course-image", c.admin.UploadCourseImage)
		adminGroup.POST("/uploads/lesson-audio", c.admin.UploadLessonAudio)

		adminGroup.GET("/:resource", c.admin.List)
		adminGroup.POST("/:resource", c.admin.Create)
		adminGroup.GET("/:resource/:id", c.admin.Get)
		adminGroup.PUT("/:resource/:id", c.admin.Update)
		adminGroup.DELETE("/:resource/:id", c.admin.Delete)
	}
}
