// internal/api/router.go
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"team-builder/internal/common/logger"
)

// SetupRouter wires all API routes onto a gin engine.
func SetupRouter(handler *Handler, checks map[string]HealthChecker, log logger.Logger) *gin.Engine {
	r := gin.New()

	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(corsMiddleware())

	// ===============================
	// Health and metrics
	// ===============================
	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready(checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ===============================
	// WebSocket
	// ===============================
	r.GET("/ws/sessions/:id", handler.SessionProgressWebSocket)

	// ===============================
	// API routes
	// ===============================
	api := r.Group("/api")
	{
		sessionsGroup := api.Group("/sessions")
		{
			sessionsGroup.POST("", handler.CreateSession)
			sessionsGroup.GET("/:id", handler.GetSession)
			sessionsGroup.DELETE("/:id", handler.DeleteSession)
			sessionsGroup.GET("/:id/trace", handler.GetSessionTrace)
			sessionsGroup.GET("/:id/citations", handler.GetSessionCitations)
		}

		api.GET("/team-types", handler.ListTeamTypes)
		api.GET("/tasks", handler.ListTasks)
		api.POST("/teams/generate", handler.GenerateTeam)
		api.GET("/players/search", handler.SearchPlayers)
	}

	return r
}
