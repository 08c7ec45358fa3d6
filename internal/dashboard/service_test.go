package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/painel-supervisorio/internal/operations"
	"github.com/angelmondragon/painel-supervisorio/internal/rows"
	pkgerrors "github.com/angelmondragon/painel-supervisorio/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu    sync.Mutex
	rows  map[string]rows.Record
	errs  map[string]error
	calls map[string]int
}

func (s *stubFetcher) LatestRow(_ context.Context, table string) (rows.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[table]++
	if err := s.errs[table]; err != nil {
		return nil, err
	}
	return s.rows[table], nil
}

func unitRow(suffix string, mailing int64, ticket any, lastLead, createdAt string) rows.Record {
	return rows.Record{
		"st_campanhas_" + suffix:    "Ativa",
		"qtde_mailing_" + suffix:    json.Number(jsonInt(mailing)),
		"ticket_medio_" + suffix:    ticket,
		"qtde_lead_" + suffix:       json.Number("10"),
		"qtde_chamadas_" + suffix:   json.Number("100"),
		"ultimo_lead_" + suffix:     lastLead,
		"valor_consumido_" + suffix: json.Number("250.50"),
		"created_at":                createdAt,
	}
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, f RowFetcher) Service {
	t.Helper()
	svc, err := NewService(Params{
		Fetcher:  f,
		Registry: operations.DefaultRegistry(),
		Title:    "Painel",
		Refresh:  120 * time.Second,
		Now:      fixedNow,
	})
	require.NoError(t, err)
	return svc
}

func TestBoardBuildsBothQuadrants(t *testing.T) {
	f := &stubFetcher{rows: map[string]rows.Record{
		"operacao_pbx1": unitRow("pbx1", 1200, json.Number("40"), "2024-05-10 14:00:00", "2024-05-10T17:00:00Z"),
		"operacao_pbx2": unitRow("pbx2", 800, json.Number("0"), "2024-05-10T17:30:00Z", "2024-05-10T17:05:00Z"),
		"operacao_soc":  unitRow("soc", 1000, nil, "", "2024-05-10T16:00:00Z"),
		"operacao_rpa":  unitRow("rpa", 999999, json.Number("99"), "", "2024-05-10T16:00:00Z"),
	}}
	svc := newTestService(t, f)

	board, err := svc.Board(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Painel", board.Title)
	assert.Equal(t, 120, board.RefreshSeconds)
	assert.Equal(t, "Atualização automática a cada 120 segundos (2 minutos).", board.RefreshCaption)
	assert.Equal(t, "10/05/2024 15:00:00", board.GeneratedAt)
	require.Len(t, board.Quadrants, 2)

	pbx := board.Quadrants[0]
	assert.Equal(t, "QUADRANTE PBX", pbx.Heading)
	require.True(t, pbx.Total.Available)
	assert.True(t, pbx.Total.Emphasized)
	assert.Equal(t, "2.000", pbx.Total.MailingCount)
	assert.Equal(t, "R$ 40,00", pbx.Total.AverageTicket, "zero ticket of pbx2 is ignored")
	assert.Equal(t, "20", pbx.Total.LeadCount)
	assert.Equal(t, "200", pbx.Total.CallCount)
	assert.Equal(t, "R$ 501,00", pbx.Total.ConsumedValue)
	assert.Equal(t, "10/05/2024 14:30:00", pbx.Total.LastLeadAt)
	assert.Equal(t, "10/05/2024 14:05:00", pbx.Total.UpdatedAt)

	require.Len(t, pbx.Units, 4)
	pbx1 := pbx.Units[0]
	assert.True(t, pbx1.Available)
	assert.Equal(t, "Ativa", pbx1.Status)
	assert.Equal(t, "1.200", pbx1.MailingCount)
	assert.Equal(t, "R$ 40,00", pbx1.AverageTicket)
	assert.Equal(t, "R$ 250,50", pbx1.ConsumedValue)
	assert.Equal(t, "10/05/2024 14:00:00", pbx1.LastLeadAt)
	assert.Equal(t, "10/05/2024 14:00:00", pbx1.UpdatedAt)

	pbx3 := pbx.Units[2]
	assert.False(t, pbx3.Available)
	assert.Equal(t, "Nenhum dado encontrado na tabela **operacao_pbx3**.", pbx3.EmptyMessage)

	vivo := board.Quadrants[1]
	require.True(t, vivo.Total.Available)
	assert.Equal(t, "1.000", vivo.Total.MailingCount, "rpa is displayed but not summed")
	assert.Equal(t, "-", vivo.Total.AverageTicket)
	assert.Equal(t, "-", vivo.Total.LastLeadAt)
	require.Len(t, vivo.Units, 4)
	soc := vivo.Units[0]
	assert.Equal(t, "-", soc.AverageTicket)
	assert.Equal(t, "-", soc.LastLeadAt)
	assert.Equal(t, "999.999", vivo.Units[3].MailingCount)

	for _, table := range operations.DefaultRegistry().Tables() {
		assert.Equal(t, 1, f.calls[table], "each table fetched once per pass: %s", table)
	}
}

func TestBoardEmptyGroup(t *testing.T) {
	svc := newTestService(t, &stubFetcher{})

	board, err := svc.Board(context.Background())
	require.NoError(t, err)

	for _, q := range board.Quadrants {
		assert.False(t, q.Total.Available)
		assert.Equal(t, GroupEmptyMessage(q.Total.Title), q.Total.EmptyMessage)
		for _, u := range q.Units {
			assert.False(t, u.Available)
		}
	}
	assert.Equal(t, "Nenhum dado encontrado para compor **Operação PBX Total**.", board.Quadrants[0].Total.EmptyMessage)
}

func TestBoardPropagatesFetchErrors(t *testing.T) {
	fetchErr := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("timeout"), "fetch latest row of operacao_soc")
	svc := newTestService(t, &stubFetcher{errs: map[string]error{"operacao_soc": fetchErr}})

	_, err := svc.Board(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestUnitCard(t *testing.T) {
	f := &stubFetcher{rows: map[string]rows.Record{
		"operacao_fmg": unitRow("fmg", 5, json.Number("12.346"), "not a date", "2024-05-10T16:00:00Z"),
	}}
	svc := newTestService(t, f)

	card, err := svc.Unit(context.Background(), "FMG")
	require.NoError(t, err)
	assert.Equal(t, "Operação FMG (Vivo)", card.Title)
	assert.Equal(t, "R$ 12,35", card.AverageTicket)
	assert.Equal(t, "not a date", card.LastLeadAt, "unparseable text is echoed")

	card, err = svc.Unit(context.Background(), "pbx4")
	require.NoError(t, err)
	assert.False(t, card.Available)

	_, err = svc.Unit(context.Background(), "pbx9")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRefreshCaption(t *testing.T) {
	assert.Equal(t, "Atualização automática a cada 45 segundos.", RefreshCaption(45))
	assert.Equal(t, "Atualização automática a cada 60 segundos (1 minuto).", RefreshCaption(60))
	assert.Equal(t, "Atualização automática a cada 90 segundos.", RefreshCaption(90))
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(Params{Registry: operations.DefaultRegistry(), Refresh: time.Minute})
	assert.Error(t, err)
	_, err = NewService(Params{Fetcher: &stubFetcher{}, Refresh: time.Minute})
	assert.Error(t, err)
	_, err = NewService(Params{Fetcher: &stubFetcher{}, Registry: operations.DefaultRegistry()})
	assert.Error(t, err)
}
