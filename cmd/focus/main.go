package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"

	"focustrack/internal/cli"
	"focustrack/internal/client"
	"focustrack/internal/config"
	"focustrack/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("FOCUSTRACK_CONFIG")
	if configPath == "" {
		configPath = config.ClientConfigPath()
	}

	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	api := client.New(cfg.ServerURL, cfg.Token)
	app := &cli.App{
		Timer:       cfg.Timer(),
		Location:    loc,
		Store:       storage.NewSnapshotFile(cfg.StateDir),
		Backend:     api,
		EmitTimeout: cfg.EmitTimeout,
		SaveCredentials: func(token string) error {
			return config.SaveCredentials(configPath, cfg.ServerURL, token)
		},
	}

	// Forms and the live view only run on an interactive terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
