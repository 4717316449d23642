package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yuvinraja/crm-backend/internal/auth"
	"github.com/yuvinraja/crm-backend/internal/config"
	"github.com/yuvinraja/crm-backend/internal/db"
	"github.com/yuvinraja/crm-backend/internal/handler"
	"github.com/yuvinraja/crm-backend/internal/metrics"
	"github.com/yuvinraja/crm-backend/internal/queue"
	"github.com/yuvinraja/crm-backend/internal/repository"
	"github.com/yuvinraja/crm-backend/internal/service"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting CRM API server")

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
	customerRepo := repository.NewCustomerRepository(database.DB)
	orderRepo := repository.NewOrderRepository(database.DB)
	segmentRepo := repository.NewSegmentRepository(database.DB)
	campaignRepo := repository.NewCampaignRepository(database.DB)
	logRepo := repository.NewCommunicationLogRepository(database.DB)

	// Initialize services
	templateSvc := service.NewTemplateService()
	customerSvc := service.NewCustomerService(customerRepo, logger)
	orderSvc := service.NewOrderService(orderRepo, customerRepo, logger)
	segmentSvc := service.NewSegmentService(segmentRepo, customerRepo, logger)
	campaignSvc := service.NewCampaignService(
		campaignRepo,
		segmentRepo,
		segmentSvc,
		logRepo,
		templateSvc,
		queueClient,
		logger,
	)
	communicationSvc := service.NewCommunicationService(logRepo, campaignRepo)
	dashboardSvc := service.NewDashboardService(customerRepo, segmentRepo, campaignRepo, logRepo, logger)

	// Session management
	sessions := auth.NewManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, cfg.Auth.SecureCookies)

	// Metrics
	m := metrics.New()

	// Initialize handlers
	customerHandler := handler.NewCustomerHandler(customerSvc, logger)
	orderHandler := handler.NewOrderHandler(orderSvc, logger)
	segmentHandler := handler.NewSegmentHandler(segmentSvc, logger)
	campaignHandler := handler.NewCampaignHandler(campaignSvc, logger)
	communicationHandler := handler.NewCommunicationHandler(communicationSvc, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, logger)
	authHandler := handler.NewAuthHandler(sessions, logger)
	healthHandler := handler.NewHealthHandler(database, queueClient, logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(handler.RecoveryMiddleware(logger))
	r.Use(handler.LoggingMiddleware(logger))
	r.Use(handler.CORSMiddleware(cfg.API.AllowedOrigins))
	r.Use(m.Middleware)
	r.Use(sessions.Middleware)

	// Register routes
	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", m.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Get("/user", authHandler.CurrentUser)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", customerHandler.CreateCustomer)
		r.Get("/", customerHandler.ListCustomers)
		r.Get("/{id}", customerHandler.GetCustomer)
		r.Put("/{id}", customerHandler.UpdateCustomer)
		r.Delete("/{id}", customerHandler.DeleteCustomer)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orderHandler.CreateOrder)
		r.Get("/", orderHandler.ListOrders)
		r.Get("/{id}", orderHandler.GetOrder)
		r.Get("/customer/{customerId}", orderHandler.ListOrdersByCustomer)
	})

	r.Route("/segments", func(r chi.Router) {
		r.Post("/", segmentHandler.CreateSegment)
		r.Get("/", segmentHandler.ListSegments)
		r.Post("/preview", segmentHandler.PreviewSegment)
		r.Get("/{id}", segmentHandler.GetSegment)
		r.Get("/{id}/audience", segmentHandler.GetSegmentAudience)
		r.Delete("/{id}", segmentHandler.DeleteSegment)
	})

	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", campaignHandler.CreateCampaign)
		r.Get("/", campaignHandler.ListCampaigns)
		r.Get("/history", campaignHandler.CampaignHistory)
		r.Get("/{id}", campaignHandler.GetCampaign)
		r.Get("/{id}/stats", campaignHandler.GetCampaignStats)
		r.Delete("/{id}", campaignHandler.DeleteCampaign)
	})

	r.Route("/communications", func(r chi.Router) {
		r.Get("/", communicationHandler.ListCommunications)
		r.Get("/campaign/{campaignId}", communicationHandler.ListCampaignCommunications)
	})

	r.Get("/dashboard/stats", dashboardHandler.GetDashboardStats)

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}
