package main

import (
	"io/fs"
	"log/slog"
	"os"

	"focustrack/internal/config"
	"focustrack/internal/db"
	"focustrack/migrations"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Load()
	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	var source fs.FS = migrations.FS
	if cfg.MigrationsDir != "" {
		source = os.DirFS(cfg.MigrationsDir)
	}

	applied, err := db.RunMigrations(database, source)
	if err != nil {
		logger.Error("run migrations", "error", err, "applied", applied)
		os.Exit(1)
	}

	logger.Info("migrations applied successfully", "db", cfg.DBPath, "files", applied)
}
