package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yuvinraja/crm-backend/internal/config"
	"github.com/yuvinraja/crm-backend/internal/db"
	"github.com/yuvinraja/crm-backend/internal/metrics"
	"github.com/yuvinraja/crm-backend/internal/queue"
	"github.com/yuvinraja/crm-backend/internal/repository"
	"github.com/yuvinraja/crm-backend/internal/worker"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting CRM delivery worker")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect to database
	database, err := db.New(cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("connected to database")

	// Connect to Redis queue
	queueClient, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	logger.Info("connected to Redis queue")

	// Initialize repositories
	logRepo := repository.NewCommunicationLogRepository(database.DB)
	customerRepo := repository.NewCustomerRepository(database.DB)

	// Simulated delivery vendor
	vendor := worker.NewSimulatedVendor(cfg.Worker.VendorSuccessRate)

	m := metrics.New()

	processor := worker.NewDeliveryProcessor(
		logRepo,
		customerRepo,
		vendor,
		m,
		logger,
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sample the queue depth periodically for the gauge
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := queueClient.Length(ctx); err == nil {
					m.QueueSize.Set(float64(n))
				}
			}
		}
	}()

	// Start consuming delivery jobs
	consumerErrors := make(chan error, 1)
	go func() {
		logger.Info("starting delivery consumer",
			slog.Int("concurrency", cfg.Worker.Concurrency),
			slog.Float64("vendor_success_rate", cfg.Worker.VendorSuccessRate),
		)

		consumerErrors <- queueClient.Consume(ctx, processor.Process, cfg.Worker.Concurrency)
	}()

	// Wait for interrupt signal or consumer error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil && err != context.Canceled {
			logger.Error("consumer error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))

		// Cancel context to stop consumer and let in-flight jobs drain
		cancel()
		time.Sleep(5 * time.Second)

		logger.Info("worker stopped gracefully")
	}
}
