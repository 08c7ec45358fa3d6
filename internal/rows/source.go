// Package rows reads the most recent record of each monitored table.
package rows

import (
	"context"
	"maps"
	"regexp"
)

// Record is one table row keyed by column name. Values are strings, numbers
// (json.Number, int64 or float64), bools or nil.
type Record map[string]any

// Clone returns a shallow copy so callers cannot mutate cached rows.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Source returns the row with the greatest created_at of a table. An empty
// table yields (nil, nil); only transport or query failures are errors.
type Source interface {
	LatestRow(ctx context.Context, table string) (Record, error)
}

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

func validTableName(table string) bool {
	return tableNamePattern.MatchString(table)
}
