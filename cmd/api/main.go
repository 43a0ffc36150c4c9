package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"compass/internal/config"
	"compass/internal/db"
	apihttp "compass/internal/http"
	"compass/internal/observability"
	"compass/internal/repository"
	"compass/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	scoringCfg, err := cfg.ScoringConfig()
	if err != nil {
		logger.Fatal("scoring config", zap.Error(err))
	}

	shutdownTracing, err := observability.InitTracing(ctx, logger, observability.TracingConfig{
		Enabled:     cfg.OtelEnabled,
		Environment: cfg.AppEnv,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})
	if err != nil {
		logger.Warn("otel init failed (continuing without tracing)", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, pool, logger); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	familyRepo := repository.NewPgFamilyRepository(pool)
	childRepo := repository.NewPgChildRepository(pool)
	activityRepo := repository.NewPgActivityRepository(pool)
	recommendationRepo := repository.NewPgRecommendationRepository(pool)

	window := time.Hour
	var (
		lock        = service.NewMemoryGenerationLock()
		limiter     = service.NewMemoryRateLimiter(window, cfg.RecommendRatePerHour)
		tokenStore  = service.NewMemoryRefreshTokenStore()
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory lock and limiter", zap.Error(err))
		} else {
			lock = service.NewRedisGenerationLock(redisClient, cfg.RecommendLockTTL)
			limiter = service.NewRedisRateLimiter(redisClient, window, cfg.RecommendRatePerHour)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	authSvc := service.NewAuthService(logger, userRepo)
	familySvc := service.NewFamilyService(logger, familyRepo)
	childSvc := service.NewChildService(logger, childRepo, familyRepo)
	catalogSvc := service.NewCatalogService(logger, activityRepo)
	recommendationSvc := service.NewRecommendationService(
		logger,
		childRepo,
		familyRepo,
		activityRepo,
		recommendationRepo,
		scoringCfg,
		service.RecommendationOptions{
			Lock:           lock,
			Limiter:        limiter,
			CandidateLimit: cfg.RecommendCandidateLimit,
		},
	)

	router := apihttp.NewRouter(logger, apihttp.RouterDeps{
		Auth:            apihttp.NewAuthHandler(logger, authSvc, jwtSvc),
		Families:        apihttp.NewFamilyHandler(logger, familySvc),
		Children:        apihttp.NewChildHandler(logger, childSvc),
		Recommendations: apihttp.NewRecommendationHandler(logger, recommendationSvc, cfg.RecommendTimeout),
		Activities:      apihttp.NewActivityHandler(logger, catalogSvc),
		JWT:             jwtSvc,
		CORSOrigins:     cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("otel shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
