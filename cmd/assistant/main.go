package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/chikitsamitra/internal/app"
	"github.com/zatekoja/chikitsamitra/internal/cli"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
	"github.com/zatekoja/chikitsamitra/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.App.Name+"-terminal", cfg.App.Env, cfg.App.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	assistant, err := app.New(ctx, cfg, metrics, app.Options{Speech: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start assistant")
	}
	defer func() {
		if err := assistant.Close(); err != nil {
			log.Error().Err(err).Msg("error closing assistant")
		}
	}()

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = "."
	}

	shell := cli.NewShell(cli.Services{
		Chat:        assistant.Chat,
		Directory:   assistant.Directory,
		Appointment: assistant.Appointment,
		Finder:      assistant.Finder,
		Bookings:    assistant.Bookings,
	}, os.Stdin, os.Stdout, cli.WithExportDir(exportDir))

	// Run blocks on stdin, so an interrupt is handled here rather than inside the shell
	done := make(chan error, 1)
	go func() { done <- shell.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Msg("terminal input failed")
		}
	case <-ctx.Done():
		log.Info().Msg("interrupted")
	}
}
