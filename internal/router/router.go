package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focustrack/internal/handler"
	"focustrack/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Session *handler.SessionHandler
	Pause   *handler.PauseHandler
	Stats   *handler.StatsHandler
}

func New(tokens middleware.TokenParser, h Handlers, corsOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(tokens))
	protected.GET("/auth/me", h.Auth.Me)

	sessions := protected.Group("/sessions")
	sessions.POST("", h.Session.Create)
	sessions.GET("", h.Session.List)
	sessions.GET("/:id", h.Session.Get)
	sessions.DELETE("/sequences/:sequenceId", h.Session.DeleteSequence)

	pauses := protected.Group("/pause-periods")
	pauses.GET("", h.Pause.List)
	pauses.POST("", h.Pause.Create)
	pauses.DELETE("/:id", h.Pause.Delete)

	stats := protected.Group("/stats")
	stats.GET("/streak", h.Stats.Streak)
	stats.GET("/today", h.Stats.Today)
	stats.GET("/pace", h.Stats.Pace)

	return engine
}
