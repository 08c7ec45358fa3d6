package dashboard

import "github.com/angelmondragon/painel-supervisorio/internal/operations"

// Board is one rendering of the whole dashboard.
type Board struct {
	Title          string     `json:"title"`
	RefreshSeconds int        `json:"refresh_seconds"`
	RefreshCaption string     `json:"refresh_caption"`
	GeneratedAt    string     `json:"generated_at"`
	Quadrants      []Quadrant `json:"quadrants"`
}

// Quadrant is one group: its consolidated card followed by its unit cards.
type Quadrant struct {
	Key     string     `json:"key"`
	Heading string     `json:"heading"`
	Total   TotalCard  `json:"total"`
	Units   []UnitCard `json:"units"`
}

// UnitCard carries the display strings of one unit. When Available is false
// only the identity fields and EmptyMessage are set.
type UnitCard struct {
	Key          string `json:"key"`
	Table        string `json:"table"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Color        string `json:"color"`
	Available    bool   `json:"available"`
	EmptyMessage string `json:"empty_message,omitempty"`

	UpdatedAt     string `json:"updated_at,omitempty"`
	Status        string `json:"status,omitempty"`
	MailingCount  string `json:"mailing_count,omitempty"`
	AverageTicket string `json:"average_ticket,omitempty"`
	LeadCount     string `json:"lead_count,omitempty"`
	CallCount     string `json:"call_count,omitempty"`
	ConsumedValue string `json:"consumed_value,omitempty"`
	LastLeadAt    string `json:"last_lead_at,omitempty"`

	Metrics *operations.Metrics `json:"metrics,omitempty"`
}

// TotalCard carries the display strings of a group total.
type TotalCard struct {
	Key          string `json:"key"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Color        string `json:"color"`
	Emphasized   bool   `json:"emphasized"`
	Available    bool   `json:"available"`
	EmptyMessage string `json:"empty_message,omitempty"`

	UpdatedAt     string `json:"updated_at,omitempty"`
	MailingCount  string `json:"mailing_count,omitempty"`
	AverageTicket string `json:"average_ticket,omitempty"`
	LeadCount     string `json:"lead_count,omitempty"`
	CallCount     string `json:"call_count,omitempty"`
	ConsumedValue string `json:"consumed_value,omitempty"`
	LastLeadAt    string `json:"last_lead_at,omitempty"`

	Metrics *operations.ConsolidatedMetrics `json:"metrics,omitempty"`
}
