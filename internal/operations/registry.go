package operations

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// Unit is one monitored business line backed by one table.
type Unit struct {
	Key      string `json:"key" validate:"required,lowercase,alphanum"`
	Table    string `json:"table" validate:"required,sqlident"`
	Suffix   string `json:"suffix" validate:"required,lowercase,alphanum"`
	Title    string `json:"title" validate:"required"`
	Subtitle string `json:"subtitle"`
	Color    string `json:"color" validate:"required,hexcolor"`
}

// Group is one dashboard quadrant: a consolidated card over Members followed
// by one card per entry of Cards. A unit may be shown without being summed.
type Group struct {
	Key        string   `json:"key" validate:"required,lowercase,alphanum"`
	Heading    string   `json:"heading" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	Subtitle   string   `json:"subtitle"`
	Color      string   `json:"color" validate:"required,hexcolor"`
	Emphasized bool     `json:"emphasized"`
	Members    []string `json:"members" validate:"required,min=1,dive,required"`
	Cards      []string `json:"cards" validate:"required,min=1,dive,required"`
}

// Registry is the static table of units and groups rendered on the board.
type Registry struct {
	Units  []Unit
	Groups []Group

	byKey map[string]Unit
}

// NewRegistry indexes units by key. Call Validate before serving.
func NewRegistry(units []Unit, groups []Group) *Registry {
	r := &Registry{
		Units:  units,
		Groups: groups,
		byKey:  make(map[string]Unit, len(units)),
	}
	for _, u := range units {
		if _, exists := r.byKey[u.Key]; !exists {
			r.byKey[u.Key] = u
		}
	}
	return r
}

// Unit looks a unit up by key.
func (r *Registry) Unit(key string) (Unit, bool) {
	u, ok := r.byKey[strings.ToLower(strings.TrimSpace(key))]
	return u, ok
}

// Tables lists every monitored table in registry order.
func (r *Registry) Tables() []string {
	tables := make([]string, 0, len(r.Units))
	for _, u := range r.Units {
		tables = append(tables, u.Table)
	}
	return tables
}

var sqlIdentPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return sqlIdentPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate reports every malformed unit, duplicate key and dangling group
// reference at once.
func (r *Registry) Validate() error {
	if len(r.Units) == 0 {
		return fmt.Errorf("registry has no units")
	}
	v := newValidator()
	var errs error

	seenKeys := map[string]bool{}
	seenTables := map[string]bool{}
	for _, u := range r.Units {
		if err := v.Struct(u); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unit %q: %w", u.Key, err))
		}
		if seenKeys[u.Key] {
			errs = multierr.Append(errs, fmt.Errorf("duplicate unit key %q", u.Key))
		}
		if seenTables[u.Table] {
			errs = multierr.Append(errs, fmt.Errorf("table %q used by more than one unit", u.Table))
		}
		seenKeys[u.Key] = true
		seenTables[u.Table] = true
	}

	seenGroups := map[string]bool{}
	for _, g := range r.Groups {
		if err := v.Struct(g); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("group %q: %w", g.Key, err))
		}
		if seenGroups[g.Key] {
			errs = multierr.Append(errs, fmt.Errorf("duplicate group key %q", g.Key))
		}
		seenGroups[g.Key] = true
		for _, key := range append(append([]string{}, g.Members...), g.Cards...) {
			if !seenKeys[key] {
				errs = multierr.Append(errs, fmt.Errorf("group %q references unknown unit %q", g.Key, key))
			}
		}
	}
	return errs
}

// DefaultRegistry returns the PBX and Vivo operations.
func DefaultRegistry() *Registry {
	units := []Unit{
		{Key: "pbx1", Table: "operacao_pbx1", Suffix: "pbx1", Title: "Operação PBX1", Subtitle: "Monitoramento em tempo quase real — PBX1.", Color: "#ffe0b8"},
		{Key: "pbx2", Table: "operacao_pbx2", Suffix: "pbx2", Title: "Operação PBX2", Subtitle: "Indicadores dedicados à operação PBX2.", Color: "#ffe9c7"},
		{Key: "pbx3", Table: "operacao_pbx3", Suffix: "pbx3", Title: "Operação PBX3", Subtitle: "Visão consolidada da operação PBX3.", Color: "#fff1d7"},
		{Key: "pbx4", Table: "operacao_pbx4", Suffix: "pbx4", Title: "Operação PBX4", Subtitle: "Indicadores dedicados à operação PBX4.", Color: "#fff7e6"},
		{Key: "soc", Table: "operacao_soc", Suffix: "soc", Title: "Operação SOC (Vivo)", Subtitle: "Indicadores da operação Vivo — SOC.", Color: "#e0d4ff"},
		{Key: "rpo", Table: "operacao_rpo", Suffix: "rpo", Title: "Operação RPO (Vivo)", Subtitle: "Indicadores da operação Vivo — RPO.", Color: "#e9ddff"},
		{Key: "fmg", Table: "operacao_fmg", Suffix: "fmg", Title: "Operação FMG (Vivo)", Subtitle: "Indicadores da operação Vivo — FMG.", Color: "#f3eaff"},
		{Key: "rpa", Table: "operacao_rpa", Suffix: "rpa", Title: "Operação RPA (Vivo)", Subtitle: "Indicadores da operação Vivo — RPA.", Color: "#f3eaff"},
	}
	groups := []Group{
		{
			Key:        "pbx",
			Heading:    "QUADRANTE PBX",
			Title:      "Operação PBX Total",
			Subtitle:   "Resumo consolidado das operações PBX1 a PBX4.",
			Color:      "#fed7aa",
			Emphasized: true,
			Members:    []string{"pbx1", "pbx2", "pbx3", "pbx4"},
			Cards:      []string{"pbx1", "pbx2", "pbx3", "pbx4"},
		},
		{
			Key:      "vivo",
			Heading:  "QUADRANTE VIVO",
			Title:    "Operação Vivo Total",
			Subtitle: "Resumo consolidado das operações SOC, RPO e FMG.",
			Color:    "#ddd6fe",
			Members:  []string{"soc", "rpo", "fmg"},
			Cards:    []string{"soc", "rpo", "fmg", "rpa"},
		},
	}
	return NewRegistry(units, groups)
}
