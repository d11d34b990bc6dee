package pro

import (
	"fmt"
	"strings"
)

// Kind is the semantic type of a column.
type Kind int

const (
	// KindInferred means no type was declared; the reader infers one.
	KindInferred Kind = iota
	KindString
	KindNumeric
	KindInteger
	KindDate
)

var kindNames = [...]string{
	KindInferred: "inferred",
	KindString:   "string",
	KindNumeric:  "numeric",
	KindInteger:  "integer",
	KindDate:     "date",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a kind name back into a Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindInferred, nil
	}
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return KindInferred, fmt.Errorf("unknown column kind %q", s)
}

// ColumnType is the resolved type of one column.
type ColumnType struct {
	Kind Kind

	// ExcelPattern is the raw Excel number format of a date column.
	ExcelPattern string

	// Pattern is ExcelPattern translated to strftime notation.
	Pattern string
}

// ReadKind is the kind the tabular reader parses the column as. Date columns
// are read as text and converted in a second pass.
func (c ColumnType) ReadKind() Kind {
	if c.Kind == KindDate {
		return KindString
	}
	return c.Kind
}

// Layout is the Go time layout used to format dates of this column.
// Patterns that cannot be expressed as a layout fall back to
// DefaultTimestampLayout.
func (c ColumnType) Layout() string {
	if c.Pattern != "" {
		if l, err := GoLayout(c.Pattern); err == nil {
			return l
		}
	}
	return DefaultTimestampLayout
}

// DateType builds the column type of a date column declared with an Excel
// pattern.
func DateType(excelPattern string) ColumnType {
	return Declaration{Code: "D" + excelPattern}.ColumnType()
}

// TypeMap maps a column name to its declared type.
type TypeMap map[string]ColumnType

// Declaration is a single VARIABLE_TYPES code such as "I3" or "Ddd/mm/yyyy".
type Declaration struct {
	Code string
}

// Kind classifies the code by its leading character. Classification is
// case-sensitive; unknown prefixes yield KindInferred.
func (d Declaration) Kind() Kind {
	if d.Code == "" {
		return KindInferred
	}
	switch d.Code[0] {
	case 'S':
		return KindString
	case 'N':
		return KindNumeric
	case 'I':
		return KindInteger
	case 'D':
		return KindDate
	default:
		return KindInferred
	}
}

// ExcelPattern returns the date pattern that follows the D prefix.
func (d Declaration) ExcelPattern() string {
	if d.Kind() != KindDate {
		return ""
	}
	return d.Code[1:]
}

// ColumnType resolves the declaration, translating date patterns.
func (d Declaration) ColumnType() ColumnType {
	switch k := d.Kind(); k {
	case KindDate:
		raw := d.ExcelPattern()
		return ColumnType{Kind: KindDate, ExcelPattern: raw, Pattern: TranslateExcelDate(raw)}
	default:
		return ColumnType{Kind: k}
	}
}
