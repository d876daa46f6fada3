package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/finly-app/finly_backend/internal/core/services"
	"github.com/finly-app/finly_backend/internal/feed"
	"github.com/finly-app/finly_backend/internal/repositories/database/pgsql"
	"github.com/finly-app/finly_backend/pkg/config"
	"github.com/finly-app/finly_backend/pkg/database"
)

// The feed worker consumes externally-sourced transactions from the broker
// and imports them through the same service layer the API uses.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	client, err := feed.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer client.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	txnService := services.NewTransactionService(
		repos.TransactionRepo,
		repos.AccountRepo,
		services.WithCategoryReader(repos.CategoryRepo),
	)

	consumer := feed.NewConsumer(client, txnService)

	logger.Info("Feed worker starting",
		slog.String("exchange", cfg.AMQPExchange),
		slog.String("queue", cfg.AMQPQueue))

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Feed worker stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Feed worker stopped.")
}
