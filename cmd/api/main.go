package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelmondragon/painel-supervisorio/api/controllers"
	"github.com/angelmondragon/painel-supervisorio/api/routes"
	"github.com/angelmondragon/painel-supervisorio/internal/dashboard"
	"github.com/angelmondragon/painel-supervisorio/internal/operations"
	"github.com/angelmondragon/painel-supervisorio/internal/rows"
	"github.com/angelmondragon/painel-supervisorio/internal/warmer"
	"github.com/angelmondragon/painel-supervisorio/pkg/config"
	"github.com/angelmondragon/painel-supervisorio/pkg/db"
	"github.com/angelmondragon/painel-supervisorio/pkg/logger"
	"github.com/angelmondragon/painel-supervisorio/pkg/metrics"
	"github.com/angelmondragon/painel-supervisorio/pkg/migrate"
	"github.com/angelmondragon/painel-supervisorio/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Environment: cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := operations.DefaultRegistry()
	if err := registry.Validate(); err != nil {
		logg.Error(ctx, "invalid unit registry", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{}

	var source rows.Source
	switch {
	case cfg.DataSource.IsPostgres():
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()

		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			logg.Error(ctx, "failed to run dev migrations", err)
			os.Exit(1)
		}

		pgSource, err := rows.NewPostgresSource(dbClient)
		if err != nil {
			logg.Error(ctx, "failed to create postgres source", err)
			os.Exit(1)
		}
		// missing columns are logged, the board still renders with defaults
		if _, err := operations.CheckSchema(ctx, registry, pgSource, logg); err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "schema check incomplete")
		}
		source = pgSource
		readiness["postgres"] = pgSource

	default:
		sbSource, err := rows.NewSupabaseSource(cfg.Supabase.URL, cfg.Supabase.Key, rows.NewHTTPClient(cfg.Supabase.Timeout))
		if err != nil {
			logg.Error(ctx, "failed to create supabase source", err)
			os.Exit(1)
		}
		source = sbSource
		readiness["supabase"] = sbSource
	}

	var (
		cache    rows.Cache
		warmLock warmer.Lock = &warmer.LocalLock{}
	)
	if cfg.Cache.IsRedis() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		cache = rows.NewRedisCache(redisClient, logg)
		readiness["redis"] = redisClient

		warmLock, err = warmer.NewRedisLock(redisClient, redisClient.LockKey("cache-warmer"), cfg.Cache.TTL)
		if err != nil {
			logg.Error(ctx, "failed to create warmer lock", err)
			os.Exit(1)
		}
	} else {
		cache = rows.NewMemoryCache(nil)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	fetcher, err := rows.NewFetcher(rows.FetcherParams{
		Source:  source,
		Cache:   cache,
		TTL:     cfg.Cache.TTL,
		Metrics: metrics.NewRowMetrics(promRegistry),
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create row fetcher", err)
		os.Exit(1)
	}

	if cfg.Cache.WarmInterval > 0 {
		cacheWarmer, err := warmer.NewService(warmer.Params{
			Logger:    logg,
			Refresher: fetcher,
			Tables:    registry.Tables(),
			Lock:      warmLock,
			Metrics:   metrics.NewWarmMetrics(promRegistry),
			Interval:  cfg.Cache.WarmInterval,
		})
		if err != nil {
			logg.Error(ctx, "failed to create cache warmer", err)
			os.Exit(1)
		}
		go func() {
			if err := cacheWarmer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "cache warmer stopped unexpectedly", err)
			}
		}()
	}

	dashboardService, err := dashboard.NewService(dashboard.Params{
		Fetcher:  fetcher,
		Registry: registry,
		Logger:   logg,
		Title:    cfg.Dashboard.Title,
		Refresh:  cfg.Dashboard.RefreshInterval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create dashboard service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"instance":    id,
		"data_source": cfg.DataSource.Kind,
		"cache":       cfg.Cache.Backend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(cfg, logg, dashboardService, readiness, promRegistry),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
