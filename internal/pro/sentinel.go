package pro

import (
	"bytes"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// MarkerColumnName is the header of the leading marker column.
	MarkerColumnName = "!"

	// Marker is the value of every data cell in the marker column.
	Marker = "*"
)

// TokenFunc returns a fresh placeholder for one write.
type TokenFunc func() string

// NewToken returns a random (version 4) UUID string.
func NewToken() string {
	return uuid.NewString()
}

// EncodeSentinel returns a copy of t with a marker column prepended. Every
// cell of that column holds the returned token, which a CSV writer quotes like
// any other text so ReplaceSentinel can find it afterwards. t is not modified.
func EncodeSentinel(t *Table, newToken TokenFunc) (*Table, string) {
	if newToken == nil {
		newToken = NewToken
	}
	token := newToken()

	n := t.NumRows()
	cells := make([]any, n)
	for i := range cells {
		cells[i] = pgtype.Text{String: token, Valid: true}
	}

	out := &Table{Columns: make([]Column, 0, len(t.Columns)+1)}
	out.Columns = append(out.Columns, Column{
		Name:  MarkerColumnName,
		Type:  ColumnType{Kind: KindString},
		Cells: cells,
	})
	out.Columns = append(out.Columns, t.Columns...)
	return out, token
}

// ReplaceSentinel rewrites every quoted occurrence of token in a serialized
// body to the bare marker.
func ReplaceSentinel(body []byte, token string) []byte {
	return bytes.ReplaceAll(body, []byte(`"`+token+`"`), []byte(Marker))
}

// HasSentinel reports whether the first column holds only the marker.
// A table without rows has no marker column.
func HasSentinel(t *Table) bool {
	if t == nil || len(t.Columns) == 0 || t.NumRows() == 0 {
		return false
	}
	for _, cell := range t.Columns[0].Cells {
		s, ok := textValue(cell)
		if !ok || s != Marker {
			return false
		}
	}
	return true
}

// DecodeSentinel drops the first column when its only distinct value is the
// marker and returns t unchanged otherwise.
//
// A zero-row table, or a genuine data column that happens to contain only
// "*", is ambiguous; the first is kept and the second is dropped.
func DecodeSentinel(t *Table) *Table {
	if !HasSentinel(t) {
		return t
	}
	return &Table{Columns: t.Columns[1:]}
}
