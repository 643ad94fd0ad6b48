// Package scheduler wires up the cron job that re-runs the fetch on a
// schedule, each run writing a fresh output.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RunFunc executes one complete fetch run.
type RunFunc func(ctx context.Context) error

// Scheduler wraps robfig/cron and manages the periodic fetch loop.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// New registers run under the given cron expression (standard 5-field
// syntax). The expression is validated here, before the scheduler starts.
func New(spec string, run RunFunc) (*Scheduler, error) {
	logger := log.With().Str("component", "scheduler").Logger()

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		logger.Info().Str("cron", spec).Msg("Scheduled fetch starting")
		if err := run(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Scheduled fetch failed")
			return
		}
		logger.Info().Msg("Scheduled fetch complete")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("Scheduler started")
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}
