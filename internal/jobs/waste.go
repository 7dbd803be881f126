// Package jobs holds the background loops started by the server.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/commerceintel/admin-service/internal/service"
	"github.com/rs/zerolog"
)

// Generator regenerates waste price proposals
type Generator interface {
	Generate(ctx context.Context) (*service.GenerateResult, error)
}

// WasteRegenerator periodically regenerates pending waste prices
type WasteRegenerator struct {
	generator Generator
	logger    *zerolog.Logger
	interval  time.Duration
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewWasteRegenerator creates a regenerator running every interval
func NewWasteRegenerator(generator Generator, logger *zerolog.Logger, interval time.Duration) *WasteRegenerator {
	return &WasteRegenerator{
		generator: generator,
		logger:    logger,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start runs the loop until ctx is done or Stop is called. It blocks.
func (r *WasteRegenerator) Start(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info().Msg("Waste regeneration job disabled")
		return
	}

	r.logger.Info().
		Dur("interval", r.interval).
		Msg("Starting waste regeneration job")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("Waste regeneration job stopping (context cancelled)")
			return
		case <-r.stopChan:
			r.logger.Info().Msg("Waste regeneration job stopping (stop signal)")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single regeneration, logging the outcome
func (r *WasteRegenerator) RunOnce(ctx context.Context) {
	result, err := r.generator.Generate(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Scheduled waste regeneration failed")
		return
	}
	r.logger.Debug().
		Int("generated", result.Generated).
		Int("skipped", result.Skipped).
		Bool("shared", result.Shared).
		Msg("Scheduled waste regeneration finished")
}

// Stop signals the loop to stop. Safe to call more than once.
func (r *WasteRegenerator) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
}
