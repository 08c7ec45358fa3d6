package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/painel-supervisorio/api/controllers"
	"github.com/angelmondragon/painel-supervisorio/api/middleware"
	"github.com/angelmondragon/painel-supervisorio/internal/dashboard"
	"github.com/angelmondragon/painel-supervisorio/pkg/config"
	"github.com/angelmondragon/painel-supervisorio/pkg/logger"
)

const (
	pathLive    = "/health/live"
	pathReady   = "/health/ready"
	pathMetrics = "/metrics"
)

// NewRouter wires the dashboard page, the JSON API, health probes and the
// Prometheus scrape endpoint. A nil gatherer falls back to the default registry.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dashboardService dashboard.Service,
	readiness map[string]controllers.Pinger,
	gatherer prometheus.Gatherer,
) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, pathLive, pathReady, pathMetrics),
	)

	r.Get("/", controllers.DashboardPage(cfg, dashboardService, logg))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Method(http.MethodGet, pathMetrics, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.HTTP.CORSAllowedOrigins))
		r.Get("/dashboard", controllers.DashboardJSON(dashboardService, logg))
		r.Get("/units/{unit}", controllers.UnitJSON(dashboardService, logg))
	})

	return r
}
