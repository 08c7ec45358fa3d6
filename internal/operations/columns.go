package operations

import "sort"

// Field names one per-unit metric column.
type Field string

const (
	FieldStatus        Field = "st_campanhas"
	FieldMailingCount  Field = "qtde_mailing"
	FieldAverageTicket Field = "ticket_medio"
	FieldLeadCount     Field = "qtde_lead"
	FieldCallCount     Field = "qtde_chamadas"
	FieldLastLeadAt    Field = "ultimo_lead"
	FieldConsumedValue Field = "valor_consumido"
	FieldCreatedAt     Field = "created_at"
)

// CreatedAtColumn orders rows; it carries no suffix.
const CreatedAtColumn = string(FieldCreatedAt)

var suffixedFields = []Field{
	FieldStatus,
	FieldMailingCount,
	FieldAverageTicket,
	FieldLeadCount,
	FieldCallCount,
	FieldLastLeadAt,
	FieldConsumedValue,
}

// Columns maps each field to its column name for one unit.
type Columns map[Field]string

// ColumnsFor builds the lookup for a unit suffix, e.g. qtde_mailing_pbx1.
func ColumnsFor(suffix string) Columns {
	cols := make(Columns, len(suffixedFields)+1)
	for _, f := range suffixedFields {
		cols[f] = string(f) + "_" + suffix
	}
	cols[FieldCreatedAt] = CreatedAtColumn
	return cols
}

// Lookup returns the raw value for f, nil when the column is absent.
func (c Columns) Lookup(row map[string]any, f Field) any {
	name, ok := c[f]
	if !ok {
		return nil
	}
	return row[name]
}

// Names lists the column names in sorted order.
func (c Columns) Names() []string {
	names := make([]string, 0, len(c))
	for _, name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
