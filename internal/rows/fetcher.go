package rows

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/painel-supervisorio/pkg/errors"
	"github.com/angelmondragon/painel-supervisorio/pkg/logger"
	"github.com/angelmondragon/painel-supervisorio/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL bounds how long a fetched row is reused.
const DefaultTTL = 50 * time.Second

// DefaultFlightTimeout bounds a shared source call, which outlives the
// cancellation of any single waiter.
const DefaultFlightTimeout = 30 * time.Second

// FetcherParams wires a Fetcher.
type FetcherParams struct {
	Source Source
	Cache  Cache
	TTL    time.Duration

	// FlightTimeout caps one source call; DefaultFlightTimeout when zero.
	FlightTimeout time.Duration
	Metrics       *metrics.RowMetrics
	Logger        *logger.Logger
	Now           func() time.Time
}

// Fetcher serves latest rows from the cache and falls back to the source.
// Concurrent misses for one table share a single source call.
type Fetcher struct {
	source  Source
	cache   Cache
	ttl     time.Duration
	flight  time.Duration
	metrics *metrics.RowMetrics
	logg    *logger.Logger
	now     func() time.Time
	group   singleflight.Group
}

// NewFetcher validates params; the cache defaults to a MemoryCache.
func NewFetcher(p FetcherParams) (*Fetcher, error) {
	if p.Source == nil {
		return nil, errors.New("row source required")
	}
	if p.TTL <= 0 {
		p.TTL = DefaultTTL
	}
	if p.FlightTimeout <= 0 {
		p.FlightTimeout = DefaultFlightTimeout
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Cache == nil {
		p.Cache = NewMemoryCache(p.Now)
	}
	return &Fetcher{
		source:  p.Source,
		cache:   p.Cache,
		ttl:     p.TTL,
		flight:  p.FlightTimeout,
		metrics: p.Metrics,
		logg:    p.Logger,
		now:     p.Now,
	}, nil
}

// LatestRow returns the newest row of table, or nil when the table is empty.
// Source failures come back as DEPENDENCY_ERROR and are not cached.
func (f *Fetcher) LatestRow(ctx context.Context, table string) (Record, error) {
	if row, ok := f.cache.Get(ctx, table); ok {
		f.metrics.IncCache(table, metrics.CacheHit)
		return row, nil
	}
	f.metrics.IncCache(table, metrics.CacheMiss)

	row, err := f.share(ctx, table, func(fctx context.Context) (Record, error) {
		if row, ok := f.cache.Get(fctx, table); ok {
			return row, nil
		}
		return f.load(fctx, table)
	})
	if err != nil {
		return nil, err
	}
	return row.Clone(), nil
}

// Refresh reloads table from the source and replaces its cache entry, even
// when the cached row has not expired yet.
func (f *Fetcher) Refresh(ctx context.Context, table string) error {
	_, err := f.share(ctx, table, func(fctx context.Context) (Record, error) {
		return f.load(fctx, table)
	})
	return err
}

// share runs fn once per table for all concurrent callers. The call keeps
// ctx's values but not its cancellation, so a waiter that gives up does not
// fail the others; it is bounded by the flight timeout instead.
func (f *Fetcher) share(ctx context.Context, table string, fn func(context.Context) (Record, error)) (Record, error) {
	ch := f.group.DoChan(table, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.flight)
		defer cancel()
		return fn(fctx)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		row, _ := res.Val.(Record)
		return row, nil
	case <-ctx.Done():
		return nil, dependencyError(table, ctx.Err())
	}
}

func dependencyError(table string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("fetch latest row of %s", table)).
		WithDetails(map[string]any{"table": table})
}

func (f *Fetcher) load(ctx context.Context, table string) (Record, error) {
	start := f.now()
	row, err := f.source.LatestRow(ctx, table)
	elapsed := f.now().Sub(start)

	if err != nil {
		f.metrics.ObserveFetch(table, metrics.OutcomeError, elapsed)
		if f.logg != nil {
			f.logg.Error(f.logg.WithTable(ctx, table), "latest row fetch failed", err)
		}
		return nil, dependencyError(table, err)
	}

	outcome := metrics.OutcomeFound
	if len(row) == 0 {
		row = nil
		outcome = metrics.OutcomeAbsent
	}
	f.metrics.ObserveFetch(table, outcome, elapsed)
	if f.logg != nil {
		logCtx := f.logg.WithTable(ctx, table)
		logCtx = f.logg.WithFields(logCtx, map[string]any{"outcome": outcome, "duration_ms": elapsed.Milliseconds()})
		f.logg.Debug(logCtx, "latest row fetched")
	}
	f.cache.Set(ctx, table, row, f.ttl)
	return row, nil
}
