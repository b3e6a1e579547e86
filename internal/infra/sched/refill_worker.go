package sched

import (
	"context"
	"time"

	"telegram-voucher-bot/internal/usecase"

	"github.com/rs/zerolog"
)

// RefillWorker periodically tops up the voucher pool via the use case.
type RefillWorker struct {
	interval time.Duration
	poolUC   usecase.PoolUseCase
	log      *zerolog.Logger
}

func NewRefillWorker(interval time.Duration, poolUC usecase.PoolUseCase, logger *zerolog.Logger) *RefillWorker {
	wlog := logger.With().Str("component", "RefillWorker").Logger()
	return &RefillWorker{
		interval: interval,
		poolUC:   poolUC,
		log:      &wlog,
	}
}

func (w *RefillWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting refill worker")

	// Seed the pool once before the first tick so the bot never starts
	// with an empty supply.
	if err := w.poolUC.EnsureSupply(ctx); err != nil {
		w.log.Error().Err(err).Msg("initial supply check failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping refill worker")
			return ctx.Err()
		case <-ticker.C:
			if err := w.poolUC.EnsureSupply(ctx); err != nil {
				w.log.Error().Err(err).Msg("refill worker error")
			}
		}
	}
}
