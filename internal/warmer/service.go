// Package warmer keeps the row cache filled ahead of page loads, so the board
// is served from cache even right after an entry expires.
package warmer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/painel-supervisorio/pkg/logger"
	"github.com/angelmondragon/painel-supervisorio/pkg/metrics"
)

// Refresher reloads one table into the cache.
type Refresher interface {
	Refresh(ctx context.Context, table string) error
}

// Params configure the warmer.
type Params struct {
	Logger    *logger.Logger
	Refresher Refresher
	Tables    []string
	Lock      Lock
	Metrics   *metrics.WarmMetrics
	Interval  time.Duration
}

// Service refreshes every table on a fixed cadence.
type Service struct {
	logg      *logger.Logger
	refresher Refresher
	tables    []string
	lock      Lock
	metrics   *metrics.WarmMetrics
	interval  time.Duration
	now       func() time.Time
}

func NewService(p Params) (*Service, error) {
	if p.Logger == nil {
		return nil, errors.New("logger required")
	}
	if p.Refresher == nil {
		return nil, errors.New("refresher required")
	}
	if len(p.Tables) == 0 {
		return nil, errors.New("at least one table required")
	}
	if p.Interval <= 0 {
		return nil, fmt.Errorf("warm interval must be positive, got %s", p.Interval)
	}
	lock := p.Lock
	if lock == nil {
		lock = &LocalLock{}
	}
	return &Service{
		logg:      p.Logger,
		refresher: p.Refresher,
		tables:    append([]string(nil), p.Tables...),
		lock:      lock,
		metrics:   p.Metrics,
		interval:  p.Interval,
		now:       time.Now,
	}, nil
}

// Run warms once immediately, then on every tick until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.logg.Info(s.logg.WithField(ctx, "interval", s.interval.String()), "cache warmer started")
	s.cycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cache warmer stopped")
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Service) cycle(ctx context.Context) {
	start := s.now()
	result, err := s.runCycle(ctx)
	s.metrics.ObserveCycle(result, s.now().Sub(start))
	if err != nil {
		s.logg.Error(ctx, "cache warm cycle failed", err)
	}
}

func (s *Service) runCycle(ctx context.Context) (string, error) {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return metrics.WarmFailure, fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Debug(ctx, "another instance is warming the cache; skipping this cycle")
		return metrics.WarmSkipped, nil
	}
	defer func() {
		if relErr := s.lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.logg.Error(ctx, "failed to release warmer lock", relErr)
		}
	}()

	// every table is attempted; one failing source table must not leave the
	// others stale
	var (
		mu   sync.Mutex
		errs error
		wg   sync.WaitGroup
	)
	for _, table := range s.tables {
		table := table
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.refresher.Refresh(ctx, table); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if errs != nil {
		return metrics.WarmFailure, errs
	}
	return metrics.WarmSuccess, nil
}
