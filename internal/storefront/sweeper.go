package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/pkg/logger"
)

const defaultSweepInterval = time.Minute

// SweeperParams configure the idle-session sweeper.
type SweeperParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Recorder Recorder
	Interval time.Duration
	Now      func() time.Time
}

// Sweeper evicts idle sessions on a fixed cadence.
type Sweeper struct {
	logg     *logger.Logger
	registry *Registry
	recorder Recorder
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(params SweeperParams) (*Sweeper, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("registry required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		logg:     params.Logger,
		registry: params.Registry,
		recorder: params.Recorder,
		interval: interval,
		now:      now,
	}, nil
}

// Run sweeps until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = s.logg.WithField(ctx, "event", "session.sweep")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "session sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) int {
	start := time.Now()
	evicted := s.registry.Sweep(s.now())
	duration := time.Since(start)
	if s.recorder != nil {
		s.recorder.ObserveSweep(duration, evicted)
	}
	if evicted > 0 {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"evicted":     evicted,
			"remaining":   s.registry.Len(),
			"duration_ms": duration.Milliseconds(),
		}), "idle sessions evicted")
	}
	return evicted
}
