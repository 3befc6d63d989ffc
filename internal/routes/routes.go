package routes

import (
	"github.com/gin-gonic/gin"

	"salescrm/internal/authz"
	"salescrm/internal/handlers"
	"salescrm/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	categoryHandler *handlers.CategoryHandler,
	leadHandler *handlers.LeadHandler,
	importHandler *handlers.ImportHandler,
	distributionHandler *handlers.DistributionHandler,
	performanceHandler *handlers.PerformanceHandler,
	passwordResetHandler *handlers.PasswordResetHandler,
	integrationsHandler *handlers.IntegrationsHandler, // may be nil when Telegram is off
) *gin.Engine {

	elevated := middleware.RequireRoles(authz.RoleManagement, authz.RoleAdmin)

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.POST("/password/forgot", passwordResetHandler.Request)
	r.POST("/password/reset", passwordResetHandler.Reset)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	if integrationsHandler != nil {
		r.POST("/integrations/telegram/webhook", integrationsHandler.Webhook)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware())
	r.Use(middleware.ReadOnlyGuard())

	if integrationsHandler != nil {
		integr := r.Group("/integrations")
		{
			integr.POST("/telegram/request-link", integrationsHandler.RequestTelegramLink)
		}
	}

	// USERS
	users := r.Group("/users")
	{
		users.POST("/", userHandler.CreateUser)
		users.GET("/count", userHandler.GetUserCount)
		users.GET("/count/role/:role_id", userHandler.GetUserCountByRole)
		users.GET("/representatives", userHandler.ListRepresentatives)
		users.GET("/", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUserByID)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
		users.POST("/:id/points", elevated, userHandler.AddPoints)
		users.GET("/:id/points", userHandler.PointHistory)
	}

	// CATEGORIES
	categories := r.Group("/categories")
	{
		categories.GET("/", categoryHandler.List)
		categories.GET("/:id", categoryHandler.GetByID)
		categories.POST("/", elevated, categoryHandler.Create)
		categories.PUT("/:id", elevated, categoryHandler.Update)
		categories.DELETE("/:id", elevated, categoryHandler.Delete)
	}

	// LEADS
	leads := r.Group("/leads")
	{
		leads.POST("/", leadHandler.Create)
		leads.GET("/", leadHandler.List)
		leads.GET("/:id", leadHandler.GetByID)
		leads.PUT("/:id", leadHandler.Update)
		leads.DELETE("/:id", leadHandler.Delete)
		leads.POST("/:id/status", leadHandler.UpdateStatus)

		leads.POST("/import", elevated, importHandler.Import)
		leads.POST("/distribute", elevated, distributionHandler.Distribute)
		leads.GET("/unassigned/count", distributionHandler.Available)
	}

	// STATS (audit/mgmt/admin)
	stats := r.Group("/stats",
		middleware.RequireRoles(authz.RoleAudit, authz.RoleManagement, authz.RoleAdmin),
	)
	{
		stats.GET("/leaderboard", performanceHandler.Leaderboard)
		stats.GET("/leaderboard/pdf", performanceHandler.LeaderboardPDF)
		stats.GET("/categories", performanceHandler.Categories)
		stats.GET("/categories/pdf", performanceHandler.CategoriesPDF)
	}

	return r
}
