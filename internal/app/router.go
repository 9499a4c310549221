package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/categories", c.category.ListCategories)

		// Catalog reads work for guests; signed-in callers get their progress.
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:courseId", middleware.TryAuthMiddleware(a.Config), c.course.GetCourse)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/chapters/:chapterId/progress", c.chapter.RecordProgress)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		teacher.GET("/courses", c.course.ListOwnedCourses)
		teacher.POST("/courses", c.course.CreateCourse)
		teacher.GET("/courses/:courseId", c.course.GetOwnedCourse)
		teacher.PATCH("/courses/:courseId", c.course.UpdateCourse)
		teacher.DELETE("/courses/:courseId", c.course.DeleteCourse)
		teacher.POST("/courses/:courseId/publish", c.course.PublishCourse)
		teacher.POST("/courses/:courseId/unpublish", c.course.UnpublishCourse)
		teacher.POST("/courses/:courseId/attachments", c.course.AddAttachment)
		teacher.DELETE("/courses/:courseId/attachments/:attachmentId", c.course.DeleteAttachment)

		teacher.POST("/courses/:courseId/chapters", c.chapter.CreateChapter)
		teacher.PUT("/courses/:courseId/chapters/reorder", c.chapter.ReorderChapters)
		teacher.GET("/courses/:courseId/chapters/:chapterId", c.chapter.GetChapter)
		teacher.PATCH("/courses/:courseId/chapters/:chapterId", c.chapter.UpdateChapter)
		teacher.DELETE("/courses/:courseId/chapters/:chapterId", c.chapter.DeleteChapter)
		teacher.POST("/courses/:courseId/chapters/:chapterId/publish", c.chapter.PublishChapter)
		teacher.POST("/courses/:courseId/chapters/:chapterId/unpublish", c.chapter.UnpublishChapter)
	}

	uploads := rg.Group("/upload")
	uploads.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		uploads.POST("/video", c.content.UploadVideo)
		uploads.POST("/image", c.content.UploadImage)
		uploads.POST("/attachment", c.content.UploadAttachment)
		uploads.GET("/progress/:uploadId", c.content.UploadProgress)
	}
}
