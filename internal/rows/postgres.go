package rows

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/painel-supervisorio/pkg/db"
)

// PostgresSource reads rows directly from a Postgres copy of the tables.
type PostgresSource struct {
	db *db.Client
}

// NewPostgresSource wraps an open database client.
func NewPostgresSource(client *db.Client) (*PostgresSource, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &PostgresSource{db: client}, nil
}

// LatestRow selects the newest row of table by created_at.
func (s *PostgresSource) LatestRow(ctx context.Context, table string) (Record, error) {
	if !validTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY created_at DESC LIMIT 1`, quoteIdent(table))
	rows, err := s.db.Raw(ctx, query).Rows()
	if err != nil {
		if db.IsUndefinedTable(err) {
			return nil, fmt.Errorf("table %s does not exist: %w", table, err)
		}
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	if !rows.Next() {
		return nil, rows.Err()
	}

	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}

	rec := make(Record, len(columns))
	for i, col := range columns {
		rec[col.Name()] = normalizeValue(col.DatabaseTypeName(), values[i])
	}
	return rec, rows.Err()
}

// Columns lists the columns of table.
func (s *PostgresSource) Columns(ctx context.Context, table string) ([]string, error) {
	return s.db.ColumnNames(ctx, table)
}

// Ping verifies the database is reachable.
func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// normalizeValue maps driver values onto the set a REST source produces.
func normalizeValue(dbType string, v any) any {
	numeric := isNumericType(dbType)
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return textValue(string(val), numeric)
	case string:
		return textValue(val, numeric)
	case time.Time:
		if isNaiveTimestampType(dbType) {
			return val.Format(naiveLayout)
		}
		return val.Format(time.RFC3339Nano)
	case float32:
		return float64(val)
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case int16:
		return int64(val)
	default:
		return v
	}
}

func textValue(s string, numeric bool) any {
	if numeric {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return json.Number(s)
		}
	}
	return s
}

// naiveLayout keeps zone-less columns zone-less so they are read as local
// display time instead of UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

func isNaiveTimestampType(dbType string) bool {
	switch strings.ToUpper(dbType) {
	case "TIMESTAMP", "DATETIME", "TIMESTAMP WITHOUT TIME ZONE":
		return true
	}
	return false
}

func isNumericType(dbType string) bool {
	t := strings.ToUpper(dbType)
	return strings.HasPrefix(t, "NUMERIC") || strings.HasPrefix(t, "DECIMAL")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
