package main

import (
	"context"
	"flag"
	"log"
	"time"

	"mindcare/internal/config"
	"mindcare/internal/db"
	"mindcare/internal/repository"
	"mindcare/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Corrida administrativa de retencion: borra, por cada owner, las sesiones
// mas viejas que el umbral pedido.
func main() {
	days := flag.Int("days", 0, "retention threshold in days (required, positive)")
	flag.Parse()

	if *days <= 0 {
		log.Fatal("-days must be a positive integer")
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	sessionRepo := repository.NewPgSessionRepository(pool)
	cleanupSvc := service.NewCleanupService(logger, sessionRepo)

	owners, err := sessionRepo.ListOwnerIDs(ctx)
	if err != nil {
		logger.Fatal("list owners", zap.Error(err))
	}

	total := 0
	for _, owner := range owners {
		deleted, err := cleanupSvc.CleanupOldSessions(ctx, owner, *days)
		if err != nil {
			logger.Error("cleanup owner failed", zap.String("owner_id", owner), zap.Error(err))
			continue
		}
		total += deleted
	}

	logger.Info("retention run finished",
		zap.Int("days_to_keep", *days),
		zap.Int("owners", len(owners)),
		zap.Int("deleted_sessions", total),
	)
}
