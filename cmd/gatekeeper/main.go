package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gatekeeper-bot/internal/bot"
	"gatekeeper-bot/internal/config"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/repository"
	"gatekeeper-bot/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg := logger.New(cfg.Debug)

	// An unreachable store is the one fatal startup condition.
	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logg.Fatal().Err(err).Msg("db")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	contentRepo := repository.NewContentRepository(db)

	registry := service.NewRegistry(channelRepo, adminRepo, cfg.RequiredChannels, logg)
	if err := registry.Bootstrap(ctx, cfg.MainAdminID, cfg.SecondaryAdmins); err != nil {
		logg.Fatal().Err(err).Msg("bootstrap registry")
	}

	gw, err := bot.NewGateway(cfg.BotToken, cfg.Debug)
	if err != nil {
		logg.Fatal().Err(err).Msg("gateway")
	}

	oracle := service.NewMembershipOracle(gw)
	gate := service.NewGate(registry, oracle, logg)
	pool := service.NewContentPool(contentRepo)
	broadcaster := service.NewBroadcaster(gw, cfg.BroadcastInterval, logg)

	telegramBot := bot.New(gw, userRepo, registry, gate, pool, broadcaster, &cfg, logg)

	if cfg.DigestTime != "" {
		digest := service.NewDigest(userRepo, contentRepo, registry, gw, cfg.MainAdminID, logg)
		scheduler := service.NewScheduler(time.Local)
		if _, err := scheduler.ScheduleDaily(cfg.DigestTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := digest.Run(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error().Err(err).Msg("digest")
			}
		}); err != nil {
			logg.Fatal().Err(err).Msg("schedule digest")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	logg.Info().Msg("gatekeeper bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Fatal().Err(err).Msg("bot stopped with error")
	}
	logg.Info().Msg("shutdown complete")
}
