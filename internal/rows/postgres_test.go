package rows

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/angelmondragon/painel-supervisorio/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSQLiteSource(t *testing.T) (*PostgresSource, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, conn.Exec(`CREATE TABLE operacao_soc (
		id INTEGER PRIMARY KEY,
		created_at TEXT NOT NULL,
		st_campanhas_soc TEXT,
		qtde_mailing_soc INTEGER,
		ticket_medio_soc NUMERIC,
		valor_consumido_soc TEXT
	)`).Error)

	src, err := NewPostgresSource(db.Wrap(conn))
	require.NoError(t, err)
	return src, conn
}

func TestPostgresSourceLatestRow(t *testing.T) {
	src, conn := newSQLiteSource(t)
	require.NoError(t, conn.Exec(`INSERT INTO operacao_soc (created_at, st_campanhas_soc, qtde_mailing_soc, ticket_medio_soc, valor_consumido_soc) VALUES
		('2024-05-10T10:00:00Z', 'Pausada', 10, 20.5, '100.00'),
		('2024-05-10T12:00:00Z', 'Ativa', 30, 40.25, '300.50'),
		('2024-05-10T11:00:00Z', 'Encerrada', 20, NULL, NULL)`).Error)

	row, err := src.LatestRow(context.Background(), "operacao_soc")
	require.NoError(t, err)
	require.NotNil(t, row)

	assert.Equal(t, "2024-05-10T12:00:00Z", row["created_at"])
	assert.Equal(t, "Ativa", row["st_campanhas_soc"])
	assert.Equal(t, int64(30), row["qtde_mailing_soc"])
	assert.Equal(t, "300.50", row["valor_consumido_soc"])
	assert.InDelta(t, 40.25, row["ticket_medio_soc"], 1e-9)
}

func TestPostgresSourceEmptyTable(t *testing.T) {
	src, _ := newSQLiteSource(t)
	row, err := src.LatestRow(context.Background(), "operacao_soc")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestPostgresSourceMissingTable(t *testing.T) {
	src, _ := newSQLiteSource(t)
	_, err := src.LatestRow(context.Background(), "operacao_fmg")
	assert.ErrorContains(t, err, "table operacao_fmg does not exist")

	_, err = src.LatestRow(context.Background(), `operacao_soc"; DROP TABLE x; --`)
	assert.ErrorContains(t, err, "invalid table name")
}

func TestPostgresSourceColumnsAndPing(t *testing.T) {
	src, _ := newSQLiteSource(t)
	require.NoError(t, src.Ping(context.Background()))

	cols, err := src.Columns(context.Background(), "operacao_soc")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"id", "created_at", "st_campanhas_soc", "qtde_mailing_soc", "ticket_medio_soc", "valor_consumido_soc"}, cols)
}

func TestNormalizeValue(t *testing.T) {
	assert.Nil(t, normalizeValue("TEXT", nil))
	assert.Equal(t, "abc", normalizeValue("TEXT", []byte("abc")))
	assert.Equal(t, json.Number("12.50"), normalizeValue("NUMERIC", "12.50"))
	assert.Equal(t, json.Number("7"), normalizeValue("DECIMAL", []byte("7")))
	assert.Equal(t, "NaN", normalizeValue("NUMERIC", "NaN"))
	assert.Equal(t, int64(4), normalizeValue("INT4", int32(4)))
	assert.Equal(t, float64(1.5), normalizeValue("FLOAT4", float32(1.5)))
}
