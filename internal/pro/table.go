package pro

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// Column is one named, typed column. Cells hold pgtype.Text, pgtype.Float8,
// pgtype.Int8 or pgtype.Timestamp values; Valid=false marks an empty cell.
type Column struct {
	Name  string
	Type  ColumnType
	Cells []any
}

// Table is a column-oriented table. All columns have the same length.
type Table struct {
	Columns []Column
}

// NewTextTable builds an all-text table from a header and data records.
// Short records are padded with empty cells; long ones are rejected.
func NewTextTable(header []string, records [][]string) (*Table, error) {
	t := &Table{Columns: make([]Column, len(header))}
	for i, name := range header {
		t.Columns[i] = Column{
			Name:  name,
			Type:  ColumnType{Kind: KindString},
			Cells: make([]any, len(records)),
		}
	}

	for r, rec := range records {
		if len(rec) > len(header) {
			return nil, &FieldCountError{Row: r, Fields: len(rec), Header: len(header)}
		}
		for c := range header {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			t.Columns[c].Cells[r] = ToText(v)
		}
	}
	return t, nil
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnNames returns the header.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the first column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Row returns the cells of row i across all columns.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.Columns))
	for c := range t.Columns {
		row[c] = t.Columns[c].Cells[i]
	}
	return row
}

// Rows returns every row; the result feeds pgx.CopyFromRows directly.
func (t *Table) Rows() [][]any {
	n := t.NumRows()
	rows := make([][]any, n)
	for i := 0; i < n; i++ {
		rows[i] = t.Row(i)
	}
	return rows
}

// Validate checks that every column has the same number of cells.
func (t *Table) Validate() error {
	n := t.NumRows()
	for _, c := range t.Columns {
		if len(c.Cells) != n {
			return fmt.Errorf("invalid table: column %q has %d cells, want %d", c.Name, len(c.Cells), n)
		}
	}
	return nil
}

// textValue returns the string of a valid text cell.
func textValue(cell any) (string, bool) {
	switch v := cell.(type) {
	case pgtype.Text:
		return v.String, v.Valid
	case string:
		return v, true
	default:
		return "", false
	}
}
