package app

import (
	"cquizy_backend/internal/config"
	"cquizy_backend/internal/middleware"
	"cquizy_backend/internal/model"
	"cquizy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.Profile)

		// Groups and membership. Rank checks (group admin vs member) live in
		// the services; these routes only require a valid login.
		authGroup.POST("/groups", c.group.Create)
		authGroup.GET("/groups", c.group.List)
		authGroup.POST("/groups/join", c.group.Join)
		authGroup.GET("/groups/:id", c.group.Detail)
		authGroup.PATCH("/groups/:id", c.group.Update)
		authGroup.DELETE("/groups/:id", c.group.Delete)
		authGroup.GET("/groups/:id/members", c.group.Members)
		authGroup.POST("/groups/:id/leave", c.group.Leave)
		authGroup.POST("/groups/:id/transfer", c.group.Transfer)
		authGroup.POST("/groups/:id/invite-code", c.group.RegenerateInviteCode)
		authGroup.DELETE("/groups/:id/members/:userId", c.group.Kick)

		// Grade bands and awarded grades.
		authGroup.POST("/groups/:id/bands", c.group.CreateBand)
		authGroup.GET("/groups/:id/bands", c.group.ListBands)
		authGroup.PATCH("/bands/:bandId", c.group.UpdateBand)
		authGroup.DELETE("/bands/:bandId", c.group.DeactivateBand)
		authGroup.GET("/groups/:id/grades", c.group.ListGrades)

		// Quizzes scheduled for a group.
		authGroup.GET("/groups/:id/quizzes", c.quiz.ListForGroup)
		authGroup.POST("/quizzes", c.quiz.Create)
		authGroup.GET("/quizzes/:id/start", c.quiz.Start)
		authGroup.POST("/quizzes/:id/submit", c.quiz.Submit)
		authGroup.GET("/quizzes/:id/submissions", c.quiz.Submissions)
		authGroup.GET("/quizzes/:id/submission", c.quiz.OwnSubmission)

		// Submissions and regrading.
		authGroup.GET("/submissions/:id", c.submission.Detail)
		authGroup.POST("/submissions/:id/regrade", c.submission.Regrade)
		authGroup.DELETE("/submissions/:id", c.submission.Reset)

		// Anti-cheat events and the lock poll.
		authGroup.POST("/quizzes/:id/events", c.event.Report)
		authGroup.GET("/quizzes/:id/lock", c.event.Lock)
		authGroup.GET("/quizzes/:id/events", c.event.ListForQuiz)
		authGroup.POST("/events/:id/resolve", c.event.Resolve)
	}

	// Project authoring is for teachers; platform admins pass the gate too.
	teacherGroup := router.Group("/api")
	teacherGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Teacher))
	{
		teacherGroup.POST("/projects", c.project.Create)
		teacherGroup.GET("/projects", c.project.List)
		teacherGroup.GET("/projects/:id", c.project.Detail)
		teacherGroup.PUT("/projects/:id", c.project.Update)
		teacherGroup.DELETE("/projects/:id", c.project.Delete)
	}

	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.GET("/events", c.event.ListAll)
	}
}
