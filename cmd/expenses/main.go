package main

import (
	"context"
	"os"

	"expenses/internal/amqp"
	"expenses/internal/cli"
	"expenses/internal/config"
	"expenses/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		return 1
	}

	ctx := context.Background()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open expense store", "error", err, "backend", cfg.Backend)
		return 1
	}
	defer store.Close()

	// The event mirror is optional; store writes never depend on it.
	var events cli.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to connect AMQP, continuing without event mirror", "error", err)
		} else {
			defer client.Close()
			events = client
		}
	}

	confirm := cli.TerminalConfirmer{In: os.Stdin, Out: os.Stdout}
	app := cli.NewApp(store, events, confirm, os.Stdout)
	return app.Run(ctx, os.Args[1:])
}
