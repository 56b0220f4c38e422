package review

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb/assessment"
)

// Sweeper closes review sessions nobody has written to for longer than the TTL.
type Sweeper struct {
	service     Service
	assessments assessment.Store
	config      SweeperConfig
	done        chan struct{}
}

type SweeperConfig struct {
	TTL      time.Duration
	Interval time.Duration
	Now      func() time.Time
}

func NewSweeper(service Service, assessments assessment.Store, config SweeperConfig) *Sweeper {
	if config.Interval <= 0 {
		config.Interval = 10 * time.Minute
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Sweeper{
		service:     service,
		assessments: assessments,
		config:      config,
		done:        make(chan struct{}),
	}
}

func (s *Sweeper) Done() <-chan struct{} {
	return s.done
}

// Run sweeps on every tick until ctx is cancelled. A zero TTL disables it.
func (s *Sweeper) Run(ctx context.Context) {
	defer close(s.done)
	logger := zerolog.Ctx(ctx)

	if s.config.TTL <= 0 {
		logger.Info().Msg("session sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("session sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				logger.Error().Err(err).Msg("failed to sweep idle sessions")
			}
		}
	}
}

// Sweep closes every idle session once and returns how many were closed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.config.Now().UTC().Add(-s.config.TTL)
	ids, err := s.assessments.ListIdle(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, id := range ids {
		err := s.service.Close(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return closed, err
		}
		closed++
	}

	if closed > 0 {
		zerolog.Ctx(ctx).Info().
			Int("closed", closed).
			Time("cutoff", cutoff).
			Msg("idle sessions closed")
	}
	return closed, nil
}
