package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shopping/internal/cfg"
	"shopping/internal/pipeline"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: shopping data")
		os.Exit(1)
	}
	source := os.Args[1]

	// Logs go to stderr; stdout carries only the report
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	settings, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.Run(ctx, source, settings)
	if err != nil {
		stop()
		log.Fatal().Err(err).Str("source", source).Msg("Run failed")
	}

	if err := result.Report.Print(os.Stdout); err != nil {
		stop()
		log.Fatal().Err(err).Msg("Failed to write report")
	}

	log.Debug().
		Str("run_id", result.ID.String()).
		Int64("seed", result.Seed).
		Msg("Run completed")
}
