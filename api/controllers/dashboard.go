package controllers

import (
	"net/http"

	"github.com/angelmondragon/painel-supervisorio/api/middleware"
	"github.com/angelmondragon/painel-supervisorio/api/responses"
	"github.com/angelmondragon/painel-supervisorio/api/validators"
	"github.com/angelmondragon/painel-supervisorio/internal/dashboard"
	"github.com/angelmondragon/painel-supervisorio/pkg/config"
	"github.com/angelmondragon/painel-supervisorio/pkg/logger"
)

type errorPage struct {
	Title          string
	Status         int
	Message        string
	RequestID      string
	RefreshSeconds int
	RefreshCaption string
}

// DashboardPage renders the board as HTML. Failures render an error page that
// keeps reloading, so a wall display recovers on its own.
func DashboardPage(cfg *config.Config, svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		board, err := svc.Board(ctx)
		if err != nil {
			status, payload := responses.Envelope(err)
			responses.LogError(ctx, logg, err)
			seconds := cfg.Dashboard.RefreshSeconds()
			page := errorPage{
				Title:          cfg.Dashboard.Title,
				Status:         status,
				Message:        payload.Error.Message,
				RequestID:      middleware.RequestIDFrom(ctx),
				RefreshSeconds: seconds,
				RefreshCaption: dashboard.RefreshCaption(seconds),
			}
			if rerr := renderPage(w, status, "error.html", page); rerr != nil && logg != nil {
				logg.Error(ctx, "failed to render error page", rerr)
			}
			return
		}
		if err := renderPage(w, http.StatusOK, "dashboard.html", board); err != nil {
			responses.WriteError(ctx, logg, w, err)
		}
	}
}

func DashboardJSON(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := svc.Board(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, board)
	}
}

func UnitJSON(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := validators.PathKey(r, "unit")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithUnit(ctx, key)
		}
		card, err := svc.Unit(ctx, key)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}
