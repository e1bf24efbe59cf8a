// Command tracker-worker tails the transaction change feed and writes an
// audit trail. It is the consuming side of the AMQP queue the API server
// publishes to, and runs as a separate process.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Jaichauhan01/expense-tracker/internal/config"
	"github.com/Jaichauhan01/expense-tracker/internal/events"
	applog "github.com/Jaichauhan01/expense-tracker/internal/log"
)

func main() {
	// .env is optional, real environments set variables directly
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required, the worker has nothing to do without a broker")
		os.Exit(1)
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting audit worker",
		applog.FieldOperation, applog.OpStartup,
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	audit := applog.Default(applog.ComponentEvents)
	err = client.Consume(ctx, func(e *events.TransactionEvent) error {
		audit.InfoContext(ctx, "Transaction event",
			applog.FieldTransactionID, e.ID,
			"action", e.Action,
			"occurred_at", e.Timestamp)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", applog.FieldError, err.Error())
		os.Exit(1)
	}

	logger.Info("Audit worker stopped", applog.FieldOperation, applog.OpShutdown)
}
