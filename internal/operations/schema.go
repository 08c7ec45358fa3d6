package operations

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/painel-supervisorio/pkg/logger"
)

// ColumnInspector lists the columns of a table.
type ColumnInspector interface {
	Columns(ctx context.Context, table string) ([]string, error)
}

// CheckSchema returns, per table, the expected columns the inspector does not
// report. Missing columns are logged as warnings; they render as "-" or 0 and
// do not stop the service.
func CheckSchema(ctx context.Context, reg *Registry, inspector ColumnInspector, logg *logger.Logger) (map[string][]string, error) {
	missing := map[string][]string{}
	for _, u := range reg.Units {
		got, err := inspector.Columns(ctx, u.Table)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", u.Table, err)
		}
		present := make(map[string]bool, len(got))
		for _, c := range got {
			present[strings.ToLower(c)] = true
		}
		for _, want := range ColumnsFor(u.Suffix).Names() {
			if !present[want] {
				missing[u.Table] = append(missing[u.Table], want)
			}
		}
		if cols := missing[u.Table]; len(cols) > 0 && logg != nil {
			tableCtx := logg.WithTable(ctx, u.Table)
			tableCtx = logg.WithField(tableCtx, "missing_columns", cols)
			logg.Warn(tableCtx, "table is missing expected columns")
		}
	}
	return missing, nil
}
