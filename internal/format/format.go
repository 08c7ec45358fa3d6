// Package format renders metric values for a pt-BR audience.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/angelmondragon/painel-supervisorio/internal/coerce"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Missing is shown for absent or unusable values.
const Missing = "-"

// CurrencyPrefix precedes every BRL amount.
const CurrencyPrefix = "R$ "

// Grouping is rendered with en-US separators and then swapped, so the
// thousands separator becomes "." and the decimal separator becomes ",".
var (
	printer       = message.NewPrinter(language.AmericanEnglish)
	separatorSwap = strings.NewReplacer(",", ".", ".", ",")
)

// Integer renders v with "." as the thousands separator.
func Integer(v any) string {
	i, ok := coerce.ToInt(v)
	if !ok {
		return Missing
	}
	return separatorSwap.Replace(printer.Sprintf("%d", i))
}

// Decimal renders v with the given number of fractional digits using ","
// as the decimal separator. NaN and infinities yield Missing.
func Decimal(v any, precision int) string {
	f, ok := coerce.ToFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing
	}
	if precision < 0 {
		precision = 0
	}
	raw := printer.Sprintf(fmt.Sprintf("%%.%df", precision), f)
	return separatorSwap.Replace(raw)
}

// CurrencyBRL renders v as a two-digit BRL amount.
func CurrencyBRL(v any) string {
	s := Decimal(v, 2)
	if s == Missing {
		return Missing
	}
	return CurrencyPrefix + s
}

// Status renders a campaign status, falling back to Missing when empty.
func Status(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return Missing
	}
	return *v
}
