package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/painel-supervisorio/internal/dashboard"
	"github.com/angelmondragon/painel-supervisorio/pkg/config"
	pkgerrors "github.com/angelmondragon/painel-supervisorio/pkg/errors"
	"github.com/angelmondragon/painel-supervisorio/pkg/types"
)

type stubDashboard struct {
	board *dashboard.Board
	cards map[string]*dashboard.UnitCard
	err   error
}

func (s stubDashboard) Board(context.Context) (*dashboard.Board, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.board, nil
}

func (s stubDashboard) Unit(_ context.Context, key string) (*dashboard.UnitCard, error) {
	if s.err != nil {
		return nil, s.err
	}
	card, ok := s.cards[key]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown unit \""+key+"\"")
	}
	return card, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev"},
		Dashboard: config.DashboardConfig{
			Title:           "Painel Supervisório",
			RefreshInterval: 120 * time.Second,
		},
	}
}

func sampleBoard() *dashboard.Board {
	pbx1 := dashboard.UnitCard{
		Key: "pbx1", Table: "operacao_pbx1", Title: "Operação PBX1", Subtitle: "PBX1", Color: "#ffe0b8",
		Available: true, UpdatedAt: "10/05/2024 14:00:00", Status: "Ativa", MailingCount: "1.200",
		AverageTicket: "R$ 40,00", LeadCount: "10", CallCount: "100", ConsumedValue: "R$ 250,50",
		LastLeadAt: "10/05/2024 13:58:00",
	}
	pbx2 := dashboard.UnitCard{
		Key: "pbx2", Table: "operacao_pbx2", Title: "Operação PBX2", Color: "#ffe9c7",
		EmptyMessage: dashboard.UnitEmptyMessage("operacao_pbx2"),
	}
	return &dashboard.Board{
		Title:          "Painel <Supervisório>",
		RefreshSeconds: 120,
		RefreshCaption: dashboard.RefreshCaption(120),
		Quadrants: []dashboard.Quadrant{
			{
				Key:     "pbx",
				Heading: "QUADRANTE PBX",
				Total: dashboard.TotalCard{
					Key: "pbx", Title: "Operação PBX Total", Color: "#fed7aa", Emphasized: true, Available: true,
					MailingCount: "1.200", AverageTicket: "R$ 40,00", LeadCount: "10", CallCount: "100",
					ConsumedValue: "R$ 250,50", LastLeadAt: "10/05/2024 13:58:00", UpdatedAt: "10/05/2024 14:00:00",
				},
				Units: []dashboard.UnitCard{pbx1, pbx2},
			},
			{
				Key:     "vivo",
				Heading: "QUADRANTE VIVO",
				Total: dashboard.TotalCard{
					Key: "vivo", Title: "Operação Vivo Total", EmptyMessage: dashboard.GroupEmptyMessage("Operação Vivo Total"),
				},
			},
		},
	}
}

func TestDashboardPageRendersBoard(t *testing.T) {
	h := DashboardPage(testConfig(), stubDashboard{board: sampleBoard()}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()

	assert.Contains(t, body, `<meta http-equiv="refresh" content="120">`)
	assert.Contains(t, body, "Painel &lt;Supervisório&gt;")
	assert.Contains(t, body, "QUADRANTE PBX")
	assert.Contains(t, body, "QUADRANTE VIVO")
	assert.Contains(t, body, `class="op-title-total"`)
	assert.Contains(t, body, "Ticket Médio (média)")
	assert.Contains(t, body, "Último Lead (hora)")
	assert.Contains(t, body, "R$ 250,50")
	assert.Contains(t, body, "background-color:#ffe0b8")
	assert.Contains(t, body, "Nenhum dado encontrado na tabela <strong>operacao_pbx2</strong>.")
	assert.Contains(t, body, "Nenhum dado encontrado para compor <strong>Operação Vivo Total</strong>.")
	assert.Contains(t, body, "Atualização automática a cada 120 segundos (2 minutos).")
}

func TestDashboardPageRendersErrorPage(t *testing.T) {
	err := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("timeout"), "fetch latest row of operacao_soc")
	h := DashboardPage(testConfig(), stubDashboard{err: err}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "data source unavailable")
	assert.Contains(t, body, `content="120"`)
	assert.NotContains(t, body, "timeout")
}

func TestDashboardJSON(t *testing.T) {
	h := DashboardJSON(stubDashboard{board: sampleBoard()}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data dashboard.Board `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data.Quadrants, 2)
	assert.Equal(t, "R$ 40,00", body.Data.Quadrants[0].Total.AverageTicket)
	assert.False(t, body.Data.Quadrants[1].Total.Available)
}

func TestUnitJSON(t *testing.T) {
	svc := stubDashboard{cards: map[string]*dashboard.UnitCard{"pbx1": &sampleBoard().Quadrants[0].Units[0]}}
	r := chi.NewRouter()
	r.Get("/api/v1/units/{unit}", UnitJSON(svc, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/units/PBX1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var ok struct {
		Data dashboard.UnitCard `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ok))
	assert.Equal(t, "Ativa", ok.Data.Status)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/units/pbx9", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/units/pbx-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var bad types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&bad))
	assert.Equal(t, string(pkgerrors.CodeValidation), bad.Error.Code)
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(testConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get(envHeader))
}

func TestHealthReady(t *testing.T) {
	cfg := testConfig()

	rec := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"source": stubPinger{}, "redis": nil}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var ok struct {
		Data struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ok))
	assert.Equal(t, "ready", ok.Data.Status)
	assert.Equal(t, map[string]string{"source": "ok"}, ok.Data.Checks)

	rec = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"source": stubPinger{err: errors.New("connection refused")}}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var failed types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&failed))
	details, isMap := failed.Error.Details.(map[string]any)
	require.True(t, isMap)
	checks, isMap := details["checks"].(map[string]any)
	require.True(t, isMap)
	assert.Equal(t, "connection refused", checks["source"])
}

func TestStrong(t *testing.T) {
	assert.Equal(t, "a <strong>b</strong> &lt;c&gt;", string(strong("a **b** <c>")))
}
