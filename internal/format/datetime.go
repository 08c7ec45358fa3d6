package format

import (
	"strings"
	"time"
	_ "time/tzdata"
)

// DisplayLayout is the dd/mm/yyyy HH:MM:SS form shown on cards.
const DisplayLayout = "02/01/2006 15:04:05"

// LocationName is the zone every timestamp is displayed in.
const LocationName = "America/Sao_Paulo"

var saoPaulo = mustLoadLocation(LocationName)

var offsetLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02 15:04:05Z07",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	DisplayLayout,
}

// zoneNames resolves trailing zone abbreviations. Go's own "MST" parsing
// invents a zero offset for names it does not know, so only these are trusted.
var zoneNames = map[string]*time.Location{
	"UTC":  time.UTC,
	"GMT":  time.UTC,
	"Z":    time.UTC,
	"BRT":  time.FixedZone("BRT", -3*60*60),
	"BRST": time.FixedZone("BRST", -2*60*60),
}

// Location returns the display zone.
func Location() *time.Location {
	return saoPaulo
}

// ParseTimestamp reads a stored timestamp. Offset-bearing values are
// converted to the display zone; naive values are taken as already in it.
func ParseTimestamp(v any) (time.Time, bool) {
	switch ts := v.(type) {
	case time.Time:
		if ts.IsZero() {
			return time.Time{}, false
		}
		return ts.In(saoPaulo), true
	case *time.Time:
		if ts == nil {
			return time.Time{}, false
		}
		return ParseTimestamp(*ts)
	case *string:
		if ts == nil {
			return time.Time{}, false
		}
		return parseTimestampText(*ts)
	case string:
		return parseTimestampText(ts)
	case []byte:
		return parseTimestampText(string(ts))
	default:
		return time.Time{}, false
	}
}

// DateTimeBR renders a timestamp in the display zone. A non-empty string
// that cannot be parsed is echoed back unchanged so bad data stays visible.
func DateTimeBR(v any) string {
	if t, ok := ParseTimestamp(v); ok {
		return t.Format(DisplayLayout)
	}
	var raw string
	switch s := v.(type) {
	case string:
		raw = s
	case *string:
		if s != nil {
			raw = *s
		}
	case []byte:
		raw = string(s)
	}
	if strings.TrimSpace(raw) == "" {
		return Missing
	}
	return raw
}

func parseTimestampText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(saoPaulo), true
		}
	}
	if t, ok := parseNaive(s, saoPaulo); ok {
		return t, true
	}
	if i := strings.LastIndexByte(s, ' '); i > 0 {
		if loc := zoneFor(s[i+1:]); loc != nil {
			if t, ok := parseNaive(strings.TrimSpace(s[:i]), loc); ok {
				return t.In(saoPaulo), true
			}
		}
	}
	return time.Time{}, false
}

func parseNaive(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// zoneFor accepts a known abbreviation or an IANA name such as
// America/Sao_Paulo.
func zoneFor(name string) *time.Location {
	if loc, ok := zoneNames[strings.ToUpper(name)]; ok {
		return loc
	}
	if !strings.Contains(name, "/") {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil
	}
	return loc
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
