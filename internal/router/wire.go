package router

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"focustrack/internal/handler"
	"focustrack/internal/repository"
	"focustrack/internal/service"
)

// Deps is what the server needs beyond an open, migrated database.
type Deps struct {
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string
	Location    *time.Location
	Logger      *slog.Logger
}

// Build wires repositories, services and handlers over database.
func Build(database *sql.DB, deps Deps) *gin.Engine {
	userRepo := repository.NewUserRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	pauseRepo := repository.NewPauseRepository(database)

	authService := service.NewAuthService(userRepo, deps.JWTSecret, deps.TokenTTL)
	sessionService := service.NewSessionService(sessionRepo, deps.Logger)
	pauseService := service.NewPauseService(pauseRepo, deps.Logger)
	statsService := service.NewStatsService(sessionRepo, pauseRepo, deps.Location, deps.Logger)

	return New(authService, Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Session: handler.NewSessionHandler(sessionService),
		Pause:   handler.NewPauseHandler(pauseService),
		Stats:   handler.NewStatsHandler(statsService),
	}, deps.CORSOrigins)
}
