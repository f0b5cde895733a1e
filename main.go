package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DashNode-Org/zk-blocktime-soundness/config"
	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/cli"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load config
	cfg := config.Load()

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.NewApp(cfg, os.Stdout).Execute(ctx, os.Args[1:])
	cancel()

	os.Exit(code)
}
