package operations

import (
	"time"

	"github.com/angelmondragon/painel-supervisorio/internal/format"
	"github.com/shopspring/decimal"
)

// ConsolidatedMetrics sums a group of units.
type ConsolidatedMetrics struct {
	Units         int        `json:"units"`
	MailingCount  int64      `json:"mailing_count"`
	AverageTicket *float64   `json:"average_ticket"`
	LeadCount     int64      `json:"lead_count"`
	CallCount     int64      `json:"call_count"`
	ConsumedValue float64    `json:"consumed_value"`
	LastLeadAt    *time.Time `json:"last_lead_at"`
	AsOf          *time.Time `json:"as_of"`
}

// Aggregate combines the non-nil entries of list, returning nil when none
// remain. A zero ticket counts as "no ticket" and is left out of the mean.
// Timestamps that do not parse are ignored.
func Aggregate(list []*Metrics) *ConsolidatedMetrics {
	out := &ConsolidatedMetrics{}
	consumed := decimal.Zero
	ticketSum := decimal.Zero
	tickets := 0
	var lastLeads, asOfs []*string

	for _, m := range list {
		if m == nil {
			continue
		}
		out.Units++
		out.MailingCount += m.MailingCount
		out.LeadCount += m.LeadCount
		out.CallCount += m.CallCount
		consumed = consumed.Add(decimal.NewFromFloat(m.ConsumedValue))

		if m.AverageTicket != nil && *m.AverageTicket != 0 {
			ticketSum = ticketSum.Add(decimal.NewFromFloat(*m.AverageTicket))
			tickets++
		}
		lastLeads = append(lastLeads, m.LastLeadAt)
		asOfs = append(asOfs, m.AsOf)
	}
	if out.Units == 0 {
		return nil
	}

	out.ConsumedValue = consumed.InexactFloat64()
	if tickets > 0 {
		mean := ticketSum.Div(decimal.NewFromInt(int64(tickets))).InexactFloat64()
		out.AverageTicket = &mean
	}
	out.LastLeadAt = latest(lastLeads)
	out.AsOf = latest(asOfs)
	return out
}

func latest(raw []*string) *time.Time {
	var max *time.Time
	for _, s := range raw {
		if s == nil || *s == "" {
			continue
		}
		t, ok := format.ParseTimestamp(*s)
		if !ok {
			continue
		}
		if max == nil || t.After(*max) {
			max = &t
		}
	}
	return max
}
