package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"mindcare/internal/config"
	"mindcare/internal/db"
	apihttp "mindcare/internal/http"
	"mindcare/internal/notify"
	"mindcare/internal/repository"
	"mindcare/internal/risk"
	"mindcare/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
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

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	statsRepo := repository.NewPgStatsRepository(pool)

	var classifier risk.Classifier = risk.NewKeywordClassifier()
	if cfg.RiskAPIKey != "" {
		classifier = risk.NewHTTPClient(cfg.RiskBaseURL, cfg.RiskAPIKey, logger)
	} else {
		logger.Warn("risk api not configured, using keyword classifier")
	}

	notifier := notify.NewDisabledNotifier("escalation notifier not configured")
	if cfg.SMTPHost != "" && cfg.EscalationEmail != "" {
		n, err := notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.EscalationEmail, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp notifier init failed", zap.Error(err))
		} else {
			notifier = n
		}
	}

	var (
		limiter    service.AppendRateLimiter
		tokenStore service.RefreshTokenStore
	)
	limiter = service.NewAppendRateLimiter(time.Minute, cfg.AppendRateLimit)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisAppendRateLimiter(redisClient, time.Minute, cfg.AppendRateLimit)
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

	userSvc := service.NewUserService(logger, userRepo)
	sessionSvc := service.NewSessionService(logger, sessionRepo, userRepo)
	messageSvc := service.NewMessageService(logger, sessionRepo, messageRepo, classifier, notifier, limiter)
	statsSvc := service.NewStatsService(logger, statsRepo)
	exportSvc := service.NewExportService(logger, sessionRepo, messageRepo)
	cleanupSvc := service.NewCleanupService(logger, sessionRepo)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	chatHandler := apihttp.NewChatHandler(logger, sessionSvc, messageSvc)
	historyHandler := apihttp.NewHistoryHandler(logger, exportSvc, statsSvc, cleanupSvc)
	router := apihttp.NewRouter(logger, jwtSvc, userHandler, chatHandler, historyHandler)

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
