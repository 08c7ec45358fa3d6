package controllers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/angelmondragon/painel-supervisorio/api/responses"
	"github.com/angelmondragon/painel-supervisorio/pkg/config"
	pkgerrors "github.com/angelmondragon/painel-supervisorio/pkg/errors"
	"github.com/angelmondragon/painel-supervisorio/pkg/logger"
)

const (
	envHeader    = "X-Painel-Env"
	readyTimeout = 3 * time.Second
)

// Pinger is anything readiness can probe: the data source, redis.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency concurrently. Nil pingers are
// skipped so optional backends can be passed unconditionally.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name, p := range checks {
		if p != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		results := make(map[string]string, len(names))
		var (
			mu     sync.Mutex
			wg     sync.WaitGroup
			failed bool
		)
		for _, name := range names {
			name := name
			wg.Add(1)
			go func() {
				defer wg.Done()
				status := "ok"
				if err := checks[name].Ping(ctx); err != nil {
					status = err.Error()
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{"check": name, "error": err.Error()}), "readiness check failed")
					}
				}
				mu.Lock()
				defer mu.Unlock()
				results[name] = status
				if status != "ok" {
					failed = true
				}
			}()
		}
		wg.Wait()

		if failed {
			err := pkgerrors.New(pkgerrors.CodeDependency, "not ready").WithDetails(map[string]any{"checks": results})
			responses.WriteError(r.Context(), nil, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": results})
	}
}
