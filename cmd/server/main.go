package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/channel-insights/channel-analyzer-go/internal/config"
	"github.com/channel-insights/channel-analyzer-go/internal/handler"
	"github.com/channel-insights/channel-analyzer-go/internal/metrics"
	"github.com/channel-insights/channel-analyzer-go/internal/middleware"
	"github.com/channel-insights/channel-analyzer-go/internal/repository"
	"github.com/channel-insights/channel-analyzer-go/internal/service"
	"github.com/channel-insights/channel-analyzer-go/internal/service/quota"
	"github.com/channel-insights/channel-analyzer-go/internal/service/youtube"
	"github.com/channel-insights/channel-analyzer-go/internal/validation"
	"github.com/channel-insights/channel-analyzer-go/pkg/logger"
)

func main() {
	// Local development convenience, ignored when no .env exists.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.YouTube.APIKey == "" {
		logger.Log.Fatal("YouTube API key is required (APP_YOUTUBE_APIKEY)")
	}

	ctx := context.Background()

	ytClient, err := youtube.NewClient(ctx, cfg.YouTube.APIKey)
	if err != nil {
		logger.Log.Fatal("Failed to initialize YouTube API client", zap.Error(err))
	}

	analyzer := service.NewAnalyzer(ytClient, cfg.YouTube.Region)

	// Quota ledger (optional, requires Postgres)
	var repo *repository.Repository
	if cfg.Database.URL != "" {
		pool, err := initDatabase(ctx, &cfg.Database)
		if err != nil {
			logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer pool.Close()

		repo = repository.New(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Log.Fatal("Failed to ensure database schema", zap.Error(err))
		}

		analyzer.SetQuotaManager(quota.NewManager(repo, cfg.YouTube.DailyQuotaLimit, cfg.YouTube.QuotaThresholdPc))
		logger.Log.Info("Quota ledger enabled", zap.Int("dailyLimit", cfg.YouTube.DailyQuotaLimit))
	} else {
		logger.Log.Info("Database URL not configured, quota accounting disabled")
	}

	// Analysis event publisher (optional)
	var publisher *service.MessagePublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = service.NewMessagePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Fatal("Failed to initialize RabbitMQ publisher", zap.Error(err))
		}
		defer publisher.Close()

		analyzer.SetPublisher(publisher)
	}

	normalizer := validation.NewNormalizer(
		cfg.Analyzer.DefaultVideoCount,
		cfg.Analyzer.MaxVideoCount,
		cfg.Analyzer.DefaultSortOrder,
		cfg.Analyzer.DefaultTimezone,
	)

	analyzeHandler := handler.NewAnalyzeHandler(analyzer, normalizer)
	healthHandler := handler.NewHealthHandler(repo, publisher)

	router := setupRouter(analyzeHandler, healthHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server error", zap.Error(err))
		}
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("Failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("Server stopped gracefully")
	}
}

func setupRouter(analyzeHandler *handler.AnalyzeHandler, healthHandler *handler.HealthHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.Middleware())

	api := router.Group("/api/v1")
	{
		api.GET("/", analyzeHandler.HandleRoot)
		api.POST("/channels/analyze", analyzeHandler.HandleAnalyzeChannel)
	}

	router.GET("/health/live", healthHandler.LivenessProbe)
	router.GET("/health/ready", healthHandler.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// initDatabase creates and verifies the Postgres connection pool backing the
// quota ledger.
func initDatabase(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnIdleTime = cfg.MaxIdleTime
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
