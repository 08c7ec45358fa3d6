package format

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteger(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "-"},
		{1234567, "1.234.567"},
		{int64(999), "999"},
		{0, "0"},
		{-4321, "-4.321"},
		{"2500", "2.500"},
		{12.9, "12"},
		{json.Number("1000000"), "1.000.000"},
		{"abc", "-"},
		{math.NaN(), "-"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Integer(tt.in), "Integer(%#v)", tt.in)
	}
}

func TestDecimal(t *testing.T) {
	assert.Equal(t, "1.234,50", Decimal(1234.5, 2))
	assert.Equal(t, "1.234.567,89", Decimal(json.Number("1234567.891"), 2))
	assert.Equal(t, "0,00", Decimal(0, 2))
	assert.Equal(t, "-12,30", Decimal(-12.3, 2))
	assert.Equal(t, "1.234", Decimal(1234.4, 0))
	assert.Equal(t, "7,500", Decimal("7.5", 3))
	assert.Equal(t, "-", Decimal(math.NaN(), 2))
	assert.Equal(t, "-", Decimal(math.Inf(-1), 2))
	assert.Equal(t, "-", Decimal(nil, 2))
	assert.Equal(t, "-", Decimal("n/a", 2))
}

func TestCurrencyBRL(t *testing.T) {
	assert.Equal(t, "R$ 10,00", CurrencyBRL(10))
	assert.Equal(t, "R$ 1.500,25", CurrencyBRL(1500.25))
	assert.Equal(t, "-", CurrencyBRL(nil))
	assert.Equal(t, "-", CurrencyBRL(math.NaN()))
}

func TestStatus(t *testing.T) {
	active := "Ativa"
	blank := "  "
	assert.Equal(t, "Ativa", Status(&active))
	assert.Equal(t, "-", Status(&blank))
	assert.Equal(t, "-", Status(nil))
}

func TestDateTimeBR(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"naive is not shifted", "2024-01-01 10:00:00", "01/01/2024 10:00:00"},
		{"naive with T", "2024-01-01T10:00:00", "01/01/2024 10:00:00"},
		{"utc shifted", "2024-01-01T13:00:00Z", "01/01/2024 10:00:00"},
		{"explicit offset", "2024-01-01T13:00:00+00:00", "01/01/2024 10:00:00"},
		{"short offset", "2024-01-01 13:00:00+00", "01/01/2024 10:00:00"},
		{"fractional seconds", "2024-06-15T18:30:45.123456+00:00", "15/06/2024 15:30:45"},
		{"already local", "2024-06-15T15:30:45-03:00", "15/06/2024 15:30:45"},
		{"date only", "2024-03-05", "05/03/2024 00:00:00"},
		{"unparseable echoed", "ontem à tarde", "ontem à tarde"},
		{"empty", "", "-"},
		{"blank", "   ", "-"},
		{"nil", nil, "-"},
		{"number", 42, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DateTimeBR(tt.in))
		})
	}
}

func TestDateTimeBRIdempotent(t *testing.T) {
	for _, in := range []string{"2024-01-01T13:00:00Z", "2024-01-01 10:00:00", "2023-12-31T23:59:59-05:00"} {
		once := DateTimeBR(in)
		assert.Equal(t, once, DateTimeBR(once), in)
	}
}

func TestDateTimeBRTimeValues(t *testing.T) {
	utc := time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "01/01/2024 10:00:00", DateTimeBR(utc))
	assert.Equal(t, "01/01/2024 10:00:00", DateTimeBR(&utc))

	var nilTime *time.Time
	assert.Equal(t, "-", DateTimeBR(nilTime))
	assert.Equal(t, "-", DateTimeBR(time.Time{}))

	raw := "2024-01-01T13:00:00Z"
	assert.Equal(t, "01/01/2024 10:00:00", DateTimeBR(&raw))
	var nilText *string
	assert.Equal(t, "-", DateTimeBR(nilText))
}

func TestParseTimestamp(t *testing.T) {
	a, ok := ParseTimestamp("2024-01-01T13:00:00Z")
	require.True(t, ok)
	b, ok := ParseTimestamp("2024-01-01 10:00:00")
	require.True(t, ok)
	assert.True(t, a.Equal(b))
	assert.Equal(t, LocationName, a.Location().String())

	_, ok = ParseTimestamp("31/31/2024")
	assert.False(t, ok)
	_, ok = ParseTimestamp(3.14)
	assert.False(t, ok)
}

func TestParseTimestampTrailingZoneName(t *testing.T) {
	assert.Equal(t, "01/01/2024 07:00:00", DateTimeBR("2024-01-01T10:00:00 UTC"))
	assert.Equal(t, "01/01/2024 07:00:00", DateTimeBR("2024-01-01 10:00:00 gmt"))
	assert.Equal(t, "01/01/2024 10:00:00", DateTimeBR("2024-01-01 10:00:00 BRT"))
	assert.Equal(t, "01/01/2024 10:00:00", DateTimeBR("2024-01-01 10:00:00 America/Sao_Paulo"))

	assert.Equal(t, "2024-01-01 10:00:00 XYZ", DateTimeBR("2024-01-01 10:00:00 XYZ"), "unknown zone is echoed")
	_, ok := ParseTimestamp("not a date")
	assert.False(t, ok)
}
