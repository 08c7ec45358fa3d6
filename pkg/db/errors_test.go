package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUndefinedTable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pgx", fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01"}), true},
		{"pgx other code", &pgconn.PgError{Code: "23505"}, false},
		{"pq", &pq.Error{Code: "42P01"}, true},
		{"postgres text", errors.New(`relation "operacao_x" does not exist`), true},
		{"sqlite text", errors.New("no such table: operacao_x"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUndefinedTable(tc.err); got != tc.want {
				t.Fatalf("IsUndefinedTable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsUndefinedTableFromSQLite(t *testing.T) {
	client := Wrap(newTestDB(t))
	var n int64
	err := client.Raw(context.Background(), `SELECT COUNT(*) FROM operacao_missing`).Scan(&n).Error
	if !IsUndefinedTable(err) {
		t.Fatalf("expected undefined table error, got %v", err)
	}
}
