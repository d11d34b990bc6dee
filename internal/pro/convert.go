package pro

// convert.go turns raw cell text into pgtype values and back.
//
// All To* functions return Valid=false for empty or unparseable input; callers
// that must tell the two apart check isBlank first.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ToText converts a string to pgtype.Text. Whitespace is preserved; only the
// empty string is invalid.
func ToText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToFloat8 converts a string to pgtype.Float8.
func ToFloat8(s string) pgtype.Float8 {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return pgtype.Float8{Valid: false}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// ToInt8 converts a string to pgtype.Int8. Integral decimals such as "12.0"
// are accepted.
func ToInt8(s string) pgtype.Int8 {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Int8{Valid: false}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return pgtype.Int8{Int64: i, Valid: true}
	}

	f := ToFloat8(s)
	if !f.Valid || f.Float64 != math.Trunc(f.Float64) || math.Abs(f.Float64) > 1<<53 {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: int64(f.Float64), Valid: true}
}

// ToTimestamp parses s with the first layout that accepts it.
func ToTimestamp(s string, layouts ...string) pgtype.Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Timestamp{Valid: false}
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return pgtype.Timestamp{Time: t, Valid: true}
		}
	}
	return pgtype.Timestamp{Valid: false}
}

// inferKind picks the narrowest kind that fits every non-empty value:
// integer, then numeric, then string.
func inferKind(values []string) Kind {
	seen := false
	integer := true
	for _, v := range values {
		if isBlank(v) {
			continue
		}
		seen = true
		if integer {
			if _, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				continue
			}
			integer = false
		}
		if !ToFloat8(v).Valid {
			return KindString
		}
	}
	switch {
	case !seen:
		return KindString
	case integer:
		return KindInteger
	default:
		return KindNumeric
	}
}

// formatCell renders a cell for the writer. numeric cells are written
// unquoted; null cells are written empty.
func formatCell(cell any, layout string) (s string, numeric, null bool) {
	switch v := cell.(type) {
	case nil:
		return "", false, true
	case pgtype.Text:
		if !v.Valid {
			return "", false, true
		}
		return v.String, false, false
	case pgtype.Float8:
		if !v.Valid {
			return "", false, true
		}
		return formatFloat(v.Float64), true, false
	case pgtype.Int8:
		if !v.Valid {
			return "", false, true
		}
		return strconv.FormatInt(v.Int64, 10), true, false
	case pgtype.Timestamp:
		if !v.Valid {
			return "", false, true
		}
		return v.Time.Format(layout), false, false
	case string:
		return v, false, false
	case float64:
		return formatFloat(v), true, false
	case int:
		return strconv.Itoa(v), true, false
	case int64:
		return strconv.FormatInt(v, 10), true, false
	case time.Time:
		return v.Format(layout), false, false
	default:
		return "", false, true
	}
}

// formatFloat always keeps a decimal point so a whole float reads back as
// numeric rather than integer.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatDate renders a timestamp cell with the column's layout. Null cells
// report false.
func FormatDate(cell any, ct ColumnType) (string, bool) {
	s, _, null := formatCell(cell, ct.Layout())
	return s, !null
}

// ParseCell converts the text of one cell to the typed value of ct. Blank
// input yields the null value of the kind; ok is false when the text does not
// fit the kind. Inferred columns are kept as text.
func ParseCell(s string, ct ColumnType) (cell any, ok bool) {
	switch ct.Kind {
	case KindNumeric:
		f := ToFloat8(s)
		return f, f.Valid || isBlank(s)
	case KindInteger:
		n := ToInt8(s)
		return n, n.Valid || isBlank(s)
	case KindDate:
		layouts := []string{DefaultTimestampLayout}
		if ct.Pattern != "" {
			if parsed, err := parseLayouts(ct.Pattern); err == nil {
				layouts = append(parsed, DefaultTimestampLayout)
			}
		}
		ts := ToTimestamp(s, layouts...)
		return ts, ts.Valid || isBlank(s)
	default:
		return ToText(s), true
	}
}
