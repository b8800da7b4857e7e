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

	"github.com/loansi/scoring-engine/internal/application/usecase"
	"github.com/loansi/scoring-engine/internal/domain/service"
	"github.com/loansi/scoring-engine/internal/domain/valueobject"
	"github.com/loansi/scoring-engine/internal/infrastructure/adapter"
	"github.com/loansi/scoring-engine/internal/infrastructure/cache"
	"github.com/loansi/scoring-engine/internal/infrastructure/config"
	"github.com/loansi/scoring-engine/internal/infrastructure/kafka"
	pgRepo "github.com/loansi/scoring-engine/internal/infrastructure/persistence/postgres"
	"github.com/loansi/scoring-engine/internal/infrastructure/snapshot"
	grpcPresentation "github.com/loansi/scoring-engine/internal/presentation/grpc"
	"github.com/loansi/scoring-engine/internal/presentation/rest"
	pkgkafka "github.com/loansi/scoring-engine/pkg/kafka"
	"github.com/loansi/scoring-engine/pkg/observability"
	pkgpostgres "github.com/loansi/scoring-engine/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	cfg.Validate()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: "json",
	})
	slog.SetDefault(logger)

	logger.Info("starting scoring-engine",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Metrics exporter; mounted on the HTTP server below.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Warn("failed to initialize metrics, continuing without them", "error", err)
	} else {
		defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort meter shutdown
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), "file://internal/infrastructure/persistence/postgres/migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Configuration snapshots cached in Redis.
	redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = redisCache.Close() }() //nolint:errcheck

	// Wire infrastructure adapters.
	catalogRepo := pgRepo.NewCatalogRepo(pool)
	outboxRepo := pgRepo.NewOutboxRepo(pool)
	evalRepo := pgRepo.NewEvaluationRepo(pool, outboxRepo)
	snapshots := snapshot.NewProvider(catalogRepo, redisCache, cfg.SnapshotTTL, logger)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := kafka.NewEventPublisher(kafkaProducer, cfg.Kafka.Topic, logger)

	// Persisted events drain to Kafka through the outbox relay.
	relay := kafka.NewOutboxRelay(outboxRepo, kafkaProducer, cfg.Kafka.Topic, cfg.OutboxPoll, 100, logger)
	go relay.Run(ctx)

	// Configuration changes fan out through Kafka so every instance drops
	// its cached snapshot, not just the one that took the write.
	listener := kafka.NewConfigListener(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
	}, cfg.Kafka.Topic, snapshots, logger)
	go func() {
		if err := listener.Run(ctx); err != nil {
			logger.Error("configuration listener stopped", "error", err)
		}
	}()

	bureauClient := adapter.NewCreditBureauAdapter(adapter.DefaultCreditBureauConfig(), nil)

	// Domain services.
	parseMode := valueobject.ParseModeLenient
	if cfg.StrictParsing {
		parseMode = valueobject.ParseModeStrict
	}
	normalizer := service.NewScoreNormalizer(parseMode)
	rejector := service.NewRejectionEvaluator()
	router := service.NewCommitteeRouter()
	tiers := service.NewTierResolver()
	finance := service.NewFinanceCalculator()
	insurance := service.NewInsuranceCalculator()

	// Wire use cases.
	evaluateUC := usecase.NewEvaluateApplicationUseCase(
		snapshots, evalRepo, bureauClient,
		normalizer, rejector, router, tiers, finance, insurance,
	)
	quoteUC := usecase.NewQuoteLoanUseCase(snapshots, finance, insurance)
	committeeUC := usecase.NewResolveCommitteeUseCase(evalRepo, snapshots)
	getEvalUC := usecase.NewGetEvaluationUseCase(evalRepo)
	queueUC := usecase.NewListCommitteeQueueUseCase(evalRepo)
	historyUC := usecase.NewGetApplicantHistoryUseCase(evalRepo)
	productsUC := usecase.NewListProductsUseCase(catalogRepo)
	configUC := usecase.NewManageConfigurationUseCase(catalogRepo, snapshots, publisher)

	// gRPC server.
	handler := grpcPresentation.NewScoringHandler(
		evaluateUC, quoteUC, committeeUC, getEvalUC,
		queueUC, historyUC, productsUC,
	)
	grpcServer := grpcPresentation.NewServer(handler, logger)

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(logger, map[string]rest.Pinger{
		"postgres": pool,
		"redis":    redisCache,
	})
	healthHandler.RegisterRoutes(mux)
	adminHandler := rest.NewAdminHandler(logger, configUC)
	adminHandler.RegisterRoutes(mux)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("scoring-engine stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
