// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-voucher-bot/internal/application"
	"telegram-voucher-bot/internal/config"
	pg "telegram-voucher-bot/internal/infra/db/postgres"
	"telegram-voucher-bot/internal/infra/lnbits"
	"telegram-voucher-bot/internal/infra/logging"
	"telegram-voucher-bot/internal/infra/metrics"
	red "telegram-voucher-bot/internal/infra/redis"
	"telegram-voucher-bot/internal/infra/sched"
	tele "telegram-voucher-bot/internal/infra/telegram"
	"telegram-voucher-bot/internal/infra/web"
	"telegram-voucher-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient, 20, time.Minute)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	claimRepo := pg.NewPostgresClaimRepo(pool)
	voucherRepo := pg.NewPostgresVoucherRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Wallet ----
	wallet := lnbits.NewClient(&cfg.Wallet)

	// ---- Use cases ----
	poolUC := usecase.NewPoolUseCase(voucherRepo, wallet, cfg.Wallet, cfg.Voucher, logger)
	selector := usecase.NewDefaultBonusSelector()
	claimUC := usecase.NewClaimUseCase(claimRepo, voucherRepo, txManager, poolUC, selector, locker, cfg.Voucher, cfg.Redis.LockTTL, logger)
	statsUC := usecase.NewStatsUseCase(claimRepo, voucherRepo, logger)
	cleanupUC := usecase.NewCleanupUseCase(claimRepo, voucherRepo, txManager, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(claimUC, statsUC, cleanupUC, poolUC, cfg.Voucher)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	if strings.ToLower(cfg.Bot.Mode) != "" && strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Admin / metrics HTTP server ----
	webSrv := web.NewServer(statsUC, poolUC, cfg.Admin.APIKey, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL, logger)
	httpPort := cfg.Admin.Port
	if httpPort == 0 {
		httpPort = 8080
	}
	server := &http.Server{Addr: fmt.Sprintf(":%d", httpPort), Handler: webSrv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Refill worker ----
	worker := sched.NewRefillWorker(cfg.Scheduler.RefillInterval, poolUC, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	_ = server.Shutdown(context.Background())
}
