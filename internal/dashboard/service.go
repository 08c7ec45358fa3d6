// Package dashboard assembles the board: it fetches the latest row of every
// unit, extracts and aggregates metrics and formats them for display.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/painel-supervisorio/internal/format"
	"github.com/angelmondragon/painel-supervisorio/internal/operations"
	"github.com/angelmondragon/painel-supervisorio/internal/rows"
	pkgerrors "github.com/angelmondragon/painel-supervisorio/pkg/errors"
	"github.com/angelmondragon/painel-supervisorio/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// RowFetcher returns the latest row of a table, nil when it is empty.
type RowFetcher interface {
	LatestRow(ctx context.Context, table string) (rows.Record, error)
}

// Service builds boards and single unit cards.
type Service interface {
	Board(ctx context.Context) (*Board, error)
	Unit(ctx context.Context, key string) (*UnitCard, error)
}

// Params wires a Service.
type Params struct {
	Fetcher  RowFetcher
	Registry *operations.Registry
	Logger   *logger.Logger
	Title    string
	Refresh  time.Duration
	Now      func() time.Time
}

type service struct {
	fetcher  RowFetcher
	registry *operations.Registry
	logg     *logger.Logger
	title    string
	refresh  time.Duration
	now      func() time.Time
}

// NewService validates params.
func NewService(p Params) (Service, error) {
	if p.Fetcher == nil {
		return nil, errors.New("row fetcher required")
	}
	if p.Registry == nil {
		return nil, errors.New("unit registry required")
	}
	if p.Refresh < time.Second {
		return nil, fmt.Errorf("refresh interval must be at least 1s, got %s", p.Refresh)
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &service{
		fetcher:  p.Fetcher,
		registry: p.Registry,
		logg:     p.Logger,
		title:    p.Title,
		refresh:  p.Refresh,
		now:      p.Now,
	}, nil
}

func (s *service) Board(ctx context.Context) (*Board, error) {
	metrics, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	seconds := int(s.refresh / time.Second)
	board := &Board{
		Title:          s.title,
		RefreshSeconds: seconds,
		RefreshCaption: RefreshCaption(seconds),
		GeneratedAt:    format.DateTimeBR(s.now()),
		Quadrants:      make([]Quadrant, 0, len(s.registry.Groups)),
	}

	for _, g := range s.registry.Groups {
		members := make([]*operations.Metrics, 0, len(g.Members))
		for _, key := range g.Members {
			members = append(members, metrics[key])
		}
		q := Quadrant{
			Key:     g.Key,
			Heading: g.Heading,
			Total:   buildTotalCard(g, operations.Aggregate(members)),
			Units:   make([]UnitCard, 0, len(g.Cards)),
		}
		for _, key := range g.Cards {
			u, _ := s.registry.Unit(key)
			q.Units = append(q.Units, buildUnitCard(u, metrics[key]))
		}
		board.Quadrants = append(board.Quadrants, q)
	}
	return board, nil
}

func (s *service) Unit(ctx context.Context, key string) (*UnitCard, error) {
	u, ok := s.registry.Unit(key)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("unknown unit %q", key))
	}
	row, err := s.fetcher.LatestRow(ctx, u.Table)
	if err != nil {
		return nil, err
	}
	card := buildUnitCard(u, operations.ExtractMetrics(row, u.Suffix))
	return &card, nil
}

// fetchAll reads every unit shown on the board concurrently. Any failure
// fails the whole pass.
func (s *service) fetchAll(ctx context.Context) (map[string]*operations.Metrics, error) {
	keys := s.boardUnits()
	out := make(map[string]*operations.Metrics, len(keys))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		u, ok := s.registry.Unit(key)
		if !ok {
			continue
		}
		g.Go(func() error {
			row, err := s.fetcher.LatestRow(gctx, u.Table)
			if err != nil {
				return err
			}
			m := operations.ExtractMetrics(row, u.Suffix)
			if m == nil && s.logg != nil {
				s.logg.Debug(s.logg.WithUnit(s.logg.WithTable(gctx, u.Table), u.Key), "no rows for unit")
			}
			mu.Lock()
			out[u.Key] = m
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) boardUnits() []string {
	seen := map[string]bool{}
	var keys []string
	for _, g := range s.registry.Groups {
		for _, list := range [][]string{g.Members, g.Cards} {
			for _, key := range list {
				if !seen[key] {
					seen[key] = true
					keys = append(keys, key)
				}
			}
		}
	}
	return keys
}

// RefreshCaption is the footer under the board.
func RefreshCaption(seconds int) string {
	caption := fmt.Sprintf("Atualização automática a cada %d segundos", seconds)
	if seconds >= 60 && seconds%60 == 0 {
		minutes := seconds / 60
		unit := "minutos"
		if minutes == 1 {
			unit = "minuto"
		}
		caption += fmt.Sprintf(" (%d %s)", minutes, unit)
	}
	return caption + "."
}

// UnitEmptyMessage is shown when a unit table has no rows.
func UnitEmptyMessage(table string) string {
	return fmt.Sprintf("Nenhum dado encontrado na tabela **%s**.", table)
}

// GroupEmptyMessage is shown when no member of a group has rows.
func GroupEmptyMessage(title string) string {
	return fmt.Sprintf("Nenhum dado encontrado para compor **%s**.", title)
}

func buildUnitCard(u operations.Unit, m *operations.Metrics) UnitCard {
	card := UnitCard{
		Key:      u.Key,
		Table:    u.Table,
		Title:    u.Title,
		Subtitle: u.Subtitle,
		Color:    u.Color,
	}
	if m == nil {
		card.EmptyMessage = UnitEmptyMessage(u.Table)
		return card
	}
	card.Available = true
	card.Metrics = m
	card.UpdatedAt = format.DateTimeBR(m.AsOf)
	card.Status = format.Status(m.Status)
	card.MailingCount = format.Integer(m.MailingCount)
	card.AverageTicket = format.CurrencyBRL(floatValue(m.AverageTicket))
	card.LeadCount = format.Integer(m.LeadCount)
	card.CallCount = format.Integer(m.CallCount)
	card.ConsumedValue = format.CurrencyBRL(m.ConsumedValue)
	card.LastLeadAt = format.DateTimeBR(m.LastLeadAt)
	return card
}

func buildTotalCard(g operations.Group, c *operations.ConsolidatedMetrics) TotalCard {
	card := TotalCard{
		Key:        g.Key,
		Title:      g.Title,
		Subtitle:   g.Subtitle,
		Color:      g.Color,
		Emphasized: g.Emphasized,
	}
	if c == nil {
		card.EmptyMessage = GroupEmptyMessage(g.Title)
		return card
	}
	card.Available = true
	card.Metrics = c
	card.UpdatedAt = format.DateTimeBR(c.AsOf)
	card.MailingCount = format.Integer(c.MailingCount)
	card.AverageTicket = format.CurrencyBRL(floatValue(c.AverageTicket))
	card.LeadCount = format.Integer(c.LeadCount)
	card.CallCount = format.Integer(c.CallCount)
	card.ConsumedValue = format.CurrencyBRL(c.ConsumedValue)
	card.LastLeadAt = format.DateTimeBR(c.LastLeadAt)
	return card
}

func floatValue(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
