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

	"ticketbooker/api/routes"
	"ticketbooker/internal/notifications"
	"ticketbooker/internal/shared/clock"
	"ticketbooker/internal/shared/config"
	"ticketbooker/internal/shared/database"
	"ticketbooker/internal/shared/middleware"
	"ticketbooker/internal/store"
	"ticketbooker/pkg/logger"
	"ticketbooker/pkg/metrics"
	"ticketbooker/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const publisherBuffer = 256

func main() {
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			logger.GetDefault().Info("Production environment: using container environment variables")
		} else {
			logger.GetDefault().Info("No .env file found, using system environment variables")
		}
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	appLogger := logger.NewWithWriter(os.Stdout, cfg.LogLevel)
	logger.SetDefault(appLogger)
	appLogger.Info("Starting ticketbooker",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("commit", GitCommit),
	)

	if err := cfg.Validate(); err != nil {
		appLogger.Error("Invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("Failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}

	// Entity store: Postgres backed when available, otherwise in-memory only
	var persister store.Persister
	if db.PostgreSQL != nil {
		persister = database.NewPersister(db.PostgreSQL)
	} else {
		appLogger.Warn("PostgreSQL disabled, state will not survive a restart")
		persister = store.NewMemoryPersister()
	}
	st := store.New(persister, store.WithLogger(appLogger.WithComponent("store")))

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = st.Load(loadCtx)
	loadCancel()
	if err != nil {
		appLogger.Error("Failed to load entity store", slog.Any("error", err))
		os.Exit(1)
	}

	var publisher notifications.Publisher
	inner, err := notifications.NewPublisher(cfg.Notifications, appLogger.WithComponent("notifications"))
	if err != nil {
		appLogger.Error("Failed to initialize notification publisher, continuing without it", slog.Any("error", err))
	} else {
		publisher = notifications.NewAsyncPublisher(inner, publisherBuffer, appLogger.WithComponent("notifications"))
	}

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.Redis != nil {
		rateLimiter = ratelimit.NewRateLimiter(db.Redis, cfg.RateLimit)
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	appRouter := routes.NewRouter(cfg, db, st, clock.Real(), publisher)
	engine := setupEngine(cfg, appRouter, rateLimiter, appLogger)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()
	appRouter.Reconciler().Start(rootCtx)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("api_base", cfg.GetAPIBasePath()),
			slog.Bool("postgres", db.PostgreSQL != nil),
			slog.Bool("redis_cache", db.Redis != nil),
			slog.Bool("rate_limiting", rateLimiter != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	appRouter.Reconciler().Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	// Final flush before the connections go away
	if err := st.Close(ctx); err != nil {
		appLogger.Error("Failed to flush entity store", slog.Any("error", err), slog.Int("pending", st.PendingFlush()))
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			appLogger.Error("Failed to close notification publisher", slog.Any("error", err))
		}
	}
	if err := db.Close(); err != nil {
		appLogger.Error("Failed to close database connections", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, appRouter *routes.Router, rateLimiter *ratelimit.RateLimiter, appLogger *logger.Logger) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestLogger(appLogger), gin.Recovery())
	if cfg.Metrics.Enabled {
		engine.Use(metrics.GinMiddleware())
	}

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	appRouter.SetupRoutes(engine)
	return engine
}
