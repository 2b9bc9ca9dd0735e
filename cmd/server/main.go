package main

import (
	"alcyxob/coach-analytics/internal/analytics"
	"alcyxob/coach-analytics/internal/api"
	"alcyxob/coach-analytics/internal/config"
	"alcyxob/coach-analytics/internal/mailer"
	"alcyxob/coach-analytics/internal/metrics"
	"alcyxob/coach-analytics/internal/report"
	"alcyxob/coach-analytics/internal/repository"
	"alcyxob/coach-analytics/internal/repository/firestore"
	"alcyxob/coach-analytics/internal/repository/memory"
	"alcyxob/coach-analytics/internal/repository/mongo"
	"alcyxob/coach-analytics/internal/service"
	"alcyxob/coach-analytics/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// @title Coach Analytics API
// @version 1.0
// @description Dashboard analytics, reports and data exports for coaching companies.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting Coach Analytics Server...", zap.String("store_backend", cfg.Store.Backend))

	// --- Document Store ---
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("Could not open document store", zap.Error(err))
	}
	defer closeStore()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, logger)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	} else {
		logger.Warn("S3 bucket not configured, generated reports will not be stored")
	}

	// --- Email ---
	var sender mailer.Sender
	if cfg.Email.APIKey != "" {
		sender = mailer.NewResendSender(cfg.Email.APIKey, cfg.Email.From, logger)
	} else {
		logger.Warn("Email API key not configured, emails are logged only")
		sender = mailer.NewNoopSender(logger)
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// --- Initialize Services ---
	seed := cfg.Report.StatsSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	renderer := report.NewRenderer(logger, report.WithPDFCompression(cfg.Report.PDFCompression))
	analyticsService := service.NewAnalyticsService(store, analytics.NewRandomStats(seed), m, logger)
	reportService := service.NewReportService(analyticsService, renderer, store.Reports, fileStorage, sender, m, logger, cfg.Report.DownloadURLExpiry)
	exportService := service.NewExportService(store, analyticsService, m, logger)

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(logger))

	api.SetupRoutes(router, cfg.JWT.Secret, cfg.Report.DefaultRangeDays, api.Services{
		Analytics: analyticsService,
		Reports:   reportService,
		Exports:   exportService,
	}, m, logger)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exiting.")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

// openStore connects the configured backend. The returned func releases it.
func openStore(cfg config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMongo:
		client, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			return repository.Store{}, nil, err
		}
		db := client.Database(cfg.Database.Name)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := mongo.EnsureIndexes(ctx, db); err != nil {
				logger.Error("Index creation failed", zap.Error(err))
				return
			}
			logger.Info("Index creation process completed.")
		}()

		return mongo.NewStore(db), func() {
			if err := mongo.DisconnectDB(client); err != nil {
				logger.Error("Failed to disconnect MongoDB", zap.Error(err))
			}
		}, nil

	case config.BackendFirestore:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := firestore.Connect(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			return repository.Store{}, nil, err
		}
		return firestore.NewStore(client), func() {
			if err := client.Close(); err != nil {
				logger.Error("Failed to close Firestore client", zap.Error(err))
			}
		}, nil

	case config.BackendMemory:
		logger.Warn("Using the in-memory store, data is not persisted")
		return memory.New().Repositories(), func() {}, nil
	}
	return repository.Store{}, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
