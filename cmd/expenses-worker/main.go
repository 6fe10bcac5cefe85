package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"expenses/internal/amqp"
	"expenses/internal/cli"
	"expenses/internal/config"
	gsheet "expenses/internal/sheets/google"
	"expenses/internal/worker"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()
	cfg := config.Load()

	// The worker is a long-running process; default to info unless the
	// operator chose a level explicitly.
	level := cfg.LogLevel
	if os.Getenv("EXPENSES_LOG_LEVEL") == "" {
		level = "info"
	}
	logger := cli.SetupLogger(level)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		return 1
	}
	if cfg.AMQPURL == "" {
		logger.Error("EXPENSES_AMQP_URL is required for the mirror worker")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect AMQP", "error", err, "url", cfg.AMQPURL)
		return 1
	}
	defer client.Close()

	appender, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		return 1
	}

	mirror := worker.NewMirror(appender)

	logger.Info("Starting expense mirror worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeExpenseEvents(ctx, func(ev *amqp.ExpenseEvent) error {
			return mirror.HandleEvent(ctx, ev)
		})
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		return ctx.Err()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		return 1
	}

	logger.Info("Worker stopped gracefully")
	return 0
}
