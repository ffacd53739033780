package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tara/internal/config"
	"tara/internal/db"
	apihttp "tara/internal/http"
	"tara/internal/llm"
	"tara/internal/repository"
	"tara/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	moodRepo := repository.NewPgMoodRepository(pool)
	journalRepo := repository.NewPgJournalRepository(pool)
	assessmentRepo := repository.NewPgAssessmentRepository(pool)
	recordSource := repository.NewPgRecordSource(moodRepo, journalRepo)

	var (
		llmClient llm.LLMClient
		embedder  llm.Embedder
	)
	if cfg.LLMEnabled() {
		client := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMEmbeddingModel, logger)
		llmClient = client
		if cfg.EmbeddingsEnabled() {
			embedder = client
		}
	} else {
		logger.Warn("llm not configured, reflection disabled")
	}

	var (
		tokenStore        service.RefreshTokenStore
		insightCache      service.DistributionCache
		reflectionLimiter = service.NewMemoryRateLimiter(cfg.ReflectionRateWindow, cfg.ReflectionRateMax)
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			insightCache = service.NewRedisDistributionCache(redisClient, cfg.InsightCacheTTL)
			reflectionLimiter = service.NewRedisRateLimiter(redisClient, "reflection:", cfg.ReflectionRateWindow, cfg.ReflectionRateMax)
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

	userSvc := service.NewUserService(logger, userRepo)
	moodSvc := service.NewMoodService(logger, moodRepo)
	journalSvc := service.NewJournalService(logger, journalRepo, embedder)
	insightSvc := service.NewInsightService(recordSource, nil, insightCache, logger)
	assessmentSvc := service.NewAssessmentService(logger, assessmentRepo)
	var reflectionSvc *service.ReflectionService
	if llmClient != nil {
		reflectionSvc = service.NewReflectionService(logger, llmClient, insightSvc, reflectionLimiter)
	}

	router := apihttp.NewRouter(logger, cfg.CORSAllowedOrigins, jwtSvc, pool, apihttp.Handlers{
		Users:       apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		Moods:       apihttp.NewMoodHandler(logger, moodSvc),
		Journals:    apihttp.NewJournalHandler(logger, journalSvc),
		Insights:    apihttp.NewInsightHandler(logger, insightSvc, reflectionSvc),
		Assessments: apihttp.NewAssessmentHandler(logger, assessmentSvc),
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
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
