package main

import (
	"io/fs"
	"log/slog"
	"os"

	"focustrack/internal/config"
	"focustrack/internal/db"
	"focustrack/internal/router"
	"focustrack/migrations"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Load()
	loc, err := cfg.Location()
	if err != nil {
		fatal(logger, "load config", err)
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		fatal(logger, "open database", err)
	}
	defer database.Close()

	applied, err := db.RunMigrations(database, migrationSource(cfg))
	if err != nil {
		fatal(logger, "run migrations", err)
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", "files", applied)
	}

	engine := router.Build(database, router.Deps{
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
		CORSOrigins: cfg.CORSOrigins,
		Location:    loc,
		Logger:      logger,
	})

	logger.Info("server listening", "port", cfg.Port, "db", cfg.DBPath, "streak_timezone", loc.String())
	if err := engine.Run(":" + cfg.Port); err != nil {
		fatal(logger, "run server", err)
	}
}

// migrationSource prefers MIGRATIONS_DIR when set and falls back to the
// schema compiled into the binary.
func migrationSource(cfg config.Config) fs.FS {
	if cfg.MigrationsDir != "" {
		return os.DirFS(cfg.MigrationsDir)
	}
	return migrations.FS
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
