// File: cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"pocaswap-api/internal/billing"
	"pocaswap-api/internal/cache"
	"pocaswap-api/internal/config"
	"pocaswap-api/internal/core"
	"pocaswap-api/internal/database"
	"pocaswap-api/internal/googleauth"
	"pocaswap-api/internal/handlers"
	"pocaswap-api/internal/media"
	"pocaswap-api/internal/metrics"
	"pocaswap-api/internal/middleware"
	"pocaswap-api/internal/realtime"
	"pocaswap-api/internal/repository"
	"pocaswap-api/internal/router"
	"pocaswap-api/internal/service"
	"pocaswap-api/internal/telemetry"
	"pocaswap-api/internal/tokens"
	"pocaswap-api/internal/worker"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	// Version information (set during build)
	version   = "0.9.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	// Initialize logger first
	logger := initLogger()

	// Log startup information
	logger.Info().
		Str("version", version).
		Str("build_time", buildTime).
		Str("git_commit", gitCommit).
		Str("go_version", runtime.Version()).
		Str("os", runtime.GOOS).
		Str("arch", runtime.GOARCH).
		Msg("Starting API server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	// Set log level based on environment
	if cfg.IsDevelopment() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		zerolog.SetGlobalLevel(level)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Cancelled on SIGINT/SIGTERM; every long-running component stops with it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := connectDatabase(cfg, logger)
	defer db.Close()

	// Initialize OpenTelemetry Tracer
	tp, err := telemetry.InitTracerProvider(ctx, cfg.OTelExporterEndpoint, version, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize TracerProvider")
	}

	// Application Context
	app := &config.Application{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		TracerProvider: tp,
		Version:        version,
	}

	// Apply schema migrations
	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database schema")
	}

	// Seed default admin in development
	database.SeedDefaultAdmin(app)

	app.Redis = connectRedis(cfg, logger)
	defer app.Redis.Close()
	logger.Info().Msg("Redis client initialized")

	// External integrations
	google, err := googleauth.NewVerifier(googleauth.Config{
		JWKSURL:   cfg.GoogleJWKSURL,
		ClientIDs: cfg.GoogleClientIDs,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Google token verifier")
	}
	defer google.Close()

	play := playVerifier(ctx, &cfg, logger)
	signer := mediaSigner(ctx, &cfg, logger)

	// Repositories
	users := repository.NewUserRepository(db)
	cards := repository.NewCardRepository(db)
	posts := repository.NewPostRepository(db)
	friends := repository.NewFriendRepository(db)
	chats := repository.NewChatRepository(db)
	trades := repository.NewTradeRepository(db)
	ratings := repository.NewRatingRepository(db)
	reports := repository.NewReportRepository(db)
	gallery := repository.NewGalleryRepository(db)
	subscriptions := repository.NewSubscriptionRepository(db)
	tx := database.NewTxManager(db)

	issuer := tokens.NewIssuer(cfg.App_Secret, cfg.GetJWTExpiration(), cfg.GetRefreshTokenTTL())
	rec := metrics.New(prometheus.DefaultRegisterer)
	hub := realtime.NewHub(logger)

	// Services
	subscriptionSvc := service.NewSubscriptionService(subscriptions, play, &cfg, rec, logger)
	quotaSvc := service.NewQuotaService(cache.NewQuotaStore(app.Redis), subscriptionSvc, &cfg, rec, logger)
	svc := handlers.Services{
		Auth:          service.NewAuthService(users, google, cache.NewRefreshTokenStore(app.Redis), issuer, logger),
		Users:         service.NewUserService(users, posts, cards, ratings, quotaSvc, subscriptionSvc, &cfg, logger),
		Quota:         quotaSvc,
		Cards:         service.NewCardService(cards, trades, logger),
		Posts:         service.NewPostService(posts, cards, quotaSvc, &cfg, logger),
		Friends:       service.NewFriendService(friends, users, chats, tx, hub, logger),
		Chat:          service.NewChatService(chats, hub, rec, logger),
		Trades:        service.NewTradeService(trades, cards, posts, users, chats, tx, hub, rec, logger),
		Ratings:       service.NewRatingService(ratings, trades, logger),
		Reports:       service.NewReportService(reports, users, posts, chats, tx, logger),
		Gallery:       service.NewGalleryService(gallery, cards, subscriptionSvc, &cfg, logger),
		Media:         service.NewMediaService(signer, &cfg, logger),
		Subscriptions: subscriptionSvc,
	}

	scheduler, err := worker.NewScheduler(subscriptionSvc, cfg.SubscriptionSweep, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to configure scheduler")
	}

	h := handlers.New(app, svc, hub, realtime.NewUpgrader(cfg.CORS_Allowed_Origins))
	mw := middleware.New(app, issuer)

	// Server Setup with production-ready timeouts. Websocket connections are
	// hijacked, so WriteTimeout only bounds ordinary responses.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.Setup(app, h, mw, rec),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.GetRequestTimeout() + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Start database connection monitoring
	database.StartConnectionMonitoring(ctx, db, time.Minute)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		scheduler.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info().
			Int("port", cfg.Port).
			Str("env", cfg.App_Env).
			Msg("Starting HTTP server")

		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Received shutdown signal, starting graceful shutdown...")
		gracefulShutdown(srv, app, logger)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}

	logger.Info().Msg("Server stopped gracefully")
}

// initLogger initializes the global logger
func initLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().
		Timestamp().
		Caller().
		Logger()

	return logger
}

// connectDatabase opens the pool, retrying while the database starts up.
func connectDatabase(cfg config.Config, logger zerolog.Logger) *pgxpool.Pool {
	dbConfig := &database.DatabaseConfig{
		MaxConns:          getEnvInt("DB_MAX_CONNS", 30),
		MinConns:          getEnvInt("DB_MIN_CONNS", 5),
		MaxConnLifetime:   time.Duration(getEnvInt("DB_MAX_CONN_LIFETIME_MINUTES", 60)) * time.Minute,
		MaxConnIdleTime:   time.Duration(getEnvInt("DB_MAX_CONN_IDLE_MINUTES", 30)) * time.Minute,
		HealthCheckPeriod: time.Duration(getEnvInt("DB_HEALTH_CHECK_MINUTES", 5)) * time.Minute,
	}

	var lastErr error
	for attempts := 0; attempts < 5; attempts++ {
		db, err := database.ConnectDBWithConfig(cfg.DatabaseURL, dbConfig)
		if err == nil {
			return db
		}
		lastErr = err
		logger.Warn().
			Err(err).
			Int("attempt", attempts+1).
			Msg("Database connection failed, retrying...")
		time.Sleep(time.Duration(attempts+1) * 2 * time.Second)
	}
	logger.Fatal().Err(lastErr).Msg("Database connection failed after all retries")
	return nil
}

// connectRedis builds the traced client and waits until it answers PING.
func connectRedis(cfg config.Config, logger zerolog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           0,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	client.AddHook(redisotel.NewTracingHook())

	var lastErr error
	for attempts := 0; attempts < 5; attempts++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := client.Ping(ctx).Result()
		cancel()
		if err == nil {
			return client
		}
		lastErr = err
		logger.Warn().
			Err(err).
			Int("attempt", attempts+1).
			Msg("Redis connection failed, retrying...")
		time.Sleep(time.Duration(attempts+1) * 2 * time.Second)
	}
	logger.Fatal().Err(lastErr).Msg("Redis connection failed after all retries")
	return nil
}

// playVerifier returns the Play client. Outside production a missing setup
// falls back to a client that rejects every receipt.
func playVerifier(ctx context.Context, cfg *config.Config, logger zerolog.Logger) core.PurchaseVerifier {
	if cfg.PlayPackageName == "" && !cfg.IsProduction() {
		logger.Warn().Msg("PLAY_PACKAGE_NAME not set, subscription verification disabled")
		return billing.Disabled{}
	}
	play, err := billing.NewPlayVerifier(ctx, cfg.PlayPackageName, cfg.PlayCredentialsFile, logger)
	if err != nil {
		if cfg.IsProduction() {
			logger.Fatal().Err(err).Msg("Failed to initialize Google Play client")
		}
		logger.Warn().Err(err).Msg("Google Play client unavailable, subscription verification disabled")
		return billing.Disabled{}
	}
	return play
}

// mediaSigner mirrors playVerifier for Cloud Storage uploads.
func mediaSigner(ctx context.Context, cfg *config.Config, logger zerolog.Logger) core.MediaSigner {
	if cfg.GCSBucket == "" && !cfg.IsProduction() {
		logger.Warn().Msg("GCS_BUCKET not set, media uploads disabled")
		return media.Disabled{}
	}
	signer, err := media.NewGCSSigner(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile, cfg.MediaPublicBaseURL)
	if err != nil {
		if cfg.IsProduction() {
			logger.Fatal().Err(err).Msg("Failed to initialize storage signer")
		}
		logger.Warn().Err(err).Msg("Storage signer unavailable, media uploads disabled")
		return media.Disabled{}
	}
	return signer
}

// gracefulShutdown drains HTTP traffic first, then releases the backends it used.
func gracefulShutdown(srv *http.Server, app *config.Application, logger zerolog.Logger) {
	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Disable keep-alives to force existing connections to close
	srv.SetKeepAlivesEnabled(false)

	logger.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		logger.Info().Msg("HTTP server shutdown complete")
	}

	// Shutdown OpenTelemetry TracerProvider
	logger.Info().Msg("Shutting down OpenTelemetry TracerProvider...")
	if err := app.TracerProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("TracerProvider shutdown error")
	} else {
		logger.Info().Msg("TracerProvider shutdown complete")
	}

	logger.Info().Msg("Graceful shutdown completed")
}

// getEnvInt gets an environment variable as int with default fallback
func getEnvInt(key string, defaultValue int) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return int32(intValue)
		}
	}
	return int32(defaultValue)
}
