package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/opentracing/opentracing-go"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/cache"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/config"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/database"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/events"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/middleware"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/service"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/storage"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/token"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/tracing"
)

// HealthChecker reports whether the store is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

type API struct {
	playlists   *service.Playlists
	videos      *service.Videos
	health      HealthChecker
	uploadDir   string
	maxFileSize int64
	logger      *logging.Logger
}

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize tracing
	tracer := opentracing.GlobalTracer()
	if cfg.Tracing.Enabled {
		t, closer, err := tracing.InitTracer(cfg.Tracing)
		if err != nil {
			logger.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer closer.Close()
		tracer = t
		logger.Info("Jaeger tracing enabled")
	}

	// Initialize database
	if cfg.Database.RunMigrations {
		if err := database.Migrate(cfg.Database.URL(database.MigrationScheme)); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("Database migrations applied")
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db.Pool, logger)

	// Initialize storage
	stor, err := storage.New(cfg.Storage, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize event publisher
	var publisher service.EventPublisher = events.NopPublisher{}
	if cfg.Queue.Enabled {
		p, err := events.New(cfg.Queue)
		if err != nil {
			logger.Fatalf("Failed to connect to queue: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	if err := os.MkdirAll(cfg.Upload.TempDir, 0o755); err != nil {
		logger.Fatalf("Failed to create upload directory: %v", err)
	}

	api := &API{
		playlists:   service.NewPlaylists(repo, repo, logger),
		videos:      service.NewVideos(repo, stor, publisher, logger),
		health:      repo,
		uploadDir:   cfg.Upload.TempDir,
		maxFileSize: cfg.Upload.MaxFileSize,
		logger:      logger,
	}

	auth := middleware.NewAuthenticator(
		token.NewManager(cfg.Auth.AccessTokenSecret),
		repo,
		cfg.Auth.CookieName,
		logger,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	limiter, closeLimiter := newLimiter(ctx, cfg.RateLimit, cfg.Redis, logger)
	defer closeLimiter.Close()

	router := setupRouter(api, routerOptions{
		auth:    auth.RequireAuth(),
		limiter: limiter,
		tracer:  tracer,
		logger:  logger,
	})

	// Start metrics server
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port)
		go func() {
			logger.Infof("Starting metrics server on :%d", cfg.Metrics.Port)
			if err := metricsServer.Start(); err != nil {
				logger.ErrorWithErr("Metrics server failed", err)
			}
		}()
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr("Server forced to shutdown", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.ErrorWithErr("Metrics server forced to shutdown", err)
		}
	}

	logger.Info("Server stopped")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLimiter builds the configured rate limiter. It returns a nil limiter
// when rate limiting is disabled.
func newLimiter(ctx context.Context, cfg config.RateLimitConfig, redisCfg config.RedisConfig, logger *logging.Logger) (middleware.Limiter, io.Closer) {
	if !cfg.Enabled {
		return nil, nopCloser{}
	}

	if cfg.Backend == "redis" {
		c, err := cache.NewCache(redisCfg.Host, redisCfg.Port, redisCfg.Password, redisCfg.DB)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		logger.Infof("Rate limiting via Redis: %d requests per %s", cfg.Requests, cfg.Window)
		return cache.NewRateLimiter(c, cfg.Requests, cfg.Window), c
	}

	local := middleware.NewLocalLimiter(cfg.Requests, cfg.Window, cfg.Burst)
	go local.Cleanup(ctx)
	logger.Infof("Rate limiting in process: %d requests per %s", cfg.Requests, cfg.Window)
	return local, nopCloser{}
}
