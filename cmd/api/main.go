package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stem-buddy/internal/config"
	"stem-buddy/internal/db"
	apihttp "stem-buddy/internal/http"
	"stem-buddy/internal/llm"
	"stem-buddy/internal/repository"
	"stem-buddy/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if cfg.OpenAIAPIKey == "" {
		logger.Warn("openai api key not configured, AI endpoints will fail until it is set")
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	var (
		sessionRepo repository.ChatSessionRepository = repository.NewPgChatSessionRepository(pool)
		messageRepo repository.ChatMessageRepository = repository.NewPgChatMessageRepository(pool)
	)

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, list caching disabled", zap.Error(err))
		} else {
			sessionRepo = repository.NewCachedChatSessionRepository(sessionRepo, redisClient, 30*time.Second)
			messageRepo = repository.NewCachedChatMessageRepository(messageRepo, redisClient, 5*time.Minute)
		}
		cancel()
	}

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.OpenAIAPIKey, cfg.LLMModel, logger)
	tutorSvc := service.NewTutorService(sessionRepo, messageRepo, llmClient, nil)
	assistSvc := service.NewAssistService(llmClient)

	tokenSvc := service.NewTokenService(cfg.JWTSecret)
	if tokenSvc == nil {
		logger.Warn("jwt secret not configured, owner-scoped access disabled")
	}

	chatHandler := apihttp.NewChatHandler(logger, tutorSvc)
	assistHandler := apihttp.NewAssistHandler(logger, assistSvc)
	router := apihttp.NewRouter(logger, chatHandler, assistHandler, tokenSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
