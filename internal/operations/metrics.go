// Package operations describes the monitored units and turns their latest
// rows into metrics.
package operations

import (
	"github.com/angelmondragon/painel-supervisorio/internal/coerce"
)

// Metrics is the normalized view of one unit's latest row. AverageTicket and
// LastLeadAt are nil when the row carries no value, which is distinct from 0.
type Metrics struct {
	Status        *string  `json:"status"`
	MailingCount  int64    `json:"mailing_count"`
	AverageTicket *float64 `json:"average_ticket"`
	LeadCount     int64    `json:"lead_count"`
	CallCount     int64    `json:"call_count"`
	LastLeadAt    *string  `json:"last_lead_at"`
	ConsumedValue float64  `json:"consumed_value"`
	AsOf          *string  `json:"as_of"`
}

// ExtractMetrics reads the suffixed columns of row. A nil or empty row yields
// nil.
func ExtractMetrics(row map[string]any, suffix string) *Metrics {
	if len(row) == 0 {
		return nil
	}
	cols := ColumnsFor(suffix)

	m := &Metrics{
		Status:        coerce.TextPtr(cols.Lookup(row, FieldStatus)),
		MailingCount:  coerce.IntOrDefault(cols.Lookup(row, FieldMailingCount), 0),
		LeadCount:     coerce.IntOrDefault(cols.Lookup(row, FieldLeadCount), 0),
		CallCount:     coerce.IntOrDefault(cols.Lookup(row, FieldCallCount), 0),
		LastLeadAt:    coerce.TextPtr(cols.Lookup(row, FieldLastLeadAt)),
		ConsumedValue: coerce.FloatOrDefault(cols.Lookup(row, FieldConsumedValue), 0),
		AsOf:          coerce.TextPtr(cols.Lookup(row, FieldCreatedAt)),
	}
	if raw := cols.Lookup(row, FieldAverageTicket); raw != nil {
		ticket := coerce.FloatOrDefault(raw, 0)
		m.AverageTicket = &ticket
	}
	return m
}
