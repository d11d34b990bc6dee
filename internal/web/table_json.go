package web

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/procodec/internal/pro"
)

// TableColumn describes one column of a JSON table. Pattern is the Excel
// date pattern of date columns.
type TableColumn struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Pattern string `json:"pattern,omitempty"`
}

// TableJSON is the wire form of a pro.Table: column metadata plus row-major
// values. Numbers are JSON numbers, dates are strings in the column's
// pattern and nulls are null.
type TableJSON struct {
	Columns []TableColumn `json:"columns"`
	Rows    [][]any       `json:"rows"`
}

// tableToJSON converts a decoded table for the read endpoint.
func tableToJSON(t *pro.Table) TableJSON {
	out := TableJSON{
		Columns: make([]TableColumn, len(t.Columns)),
		Rows:    make([][]any, t.NumRows()),
	}
	for c, col := range t.Columns {
		out.Columns[c] = TableColumn{Name: col.Name, Kind: col.Type.Kind.String(), Pattern: col.Type.ExcelPattern}
	}
	for i := range out.Rows {
		row := make([]any, len(t.Columns))
		for c, col := range t.Columns {
			row[c] = jsonValue(col.Cells[i], col.Type)
		}
		out.Rows[i] = row
	}
	return out
}

func jsonValue(cell any, ct pro.ColumnType) any {
	switch v := cell.(type) {
	case pgtype.Text:
		if !v.Valid {
			return nil
		}
		return v.String
	case pgtype.Int8:
		if !v.Valid {
			return nil
		}
		return v.Int64
	case pgtype.Float8:
		if !v.Valid {
			return nil
		}
		return v.Float64
	case pgtype.Timestamp:
		s, ok := pro.FormatDate(v, ct)
		if !ok {
			return nil
		}
		return s
	default:
		return v
	}
}

// tableFromJSON builds a typed table for the write endpoint. Values must
// already have been decoded with json.Decoder.UseNumber.
func tableFromJSON(in TableJSON) (*pro.Table, error) {
	if len(in.Columns) == 0 {
		return nil, fmt.Errorf("%w: table has no columns", pro.ErrEmptyDocument)
	}

	t := &pro.Table{Columns: make([]pro.Column, len(in.Columns))}
	for c, meta := range in.Columns {
		if meta.Name == "" {
			return nil, fmt.Errorf("invalid csv: column %d has no name", c)
		}
		kind, err := pro.ParseKind(meta.Kind)
		if err != nil {
			return nil, fmt.Errorf("invalid csv: column %q: %w", meta.Name, err)
		}

		var ct pro.ColumnType
		switch kind {
		case pro.KindDate:
			ct = pro.DateType(meta.Pattern)
		case pro.KindInferred:
			ct = pro.ColumnType{Kind: inferJSONKind(in.Rows, c)}
		default:
			ct = pro.ColumnType{Kind: kind}
		}
		t.Columns[c] = pro.Column{Name: meta.Name, Type: ct, Cells: make([]any, len(in.Rows))}
	}

	for i, row := range in.Rows {
		if len(row) != len(in.Columns) {
			return nil, &pro.FieldCountError{Row: i, Fields: len(row), Header: len(in.Columns)}
		}
		for c := range t.Columns {
			col := &t.Columns[c]
			text, isNull := valueText(row[c])
			if isNull {
				text = ""
			}
			cell, ok := pro.ParseCell(text, col.Type)
			if !ok {
				return nil, &pro.CellError{Column: col.Name, Row: i, Value: text, Kind: col.Type.Kind}
			}
			col.Cells[i] = cell
		}
	}
	return t, nil
}

// inferJSONKind types an untyped column from its JSON values: all numbers
// become integer or numeric, anything else string.
func inferJSONKind(rows [][]any, c int) pro.Kind {
	kind := pro.KindString
	for _, row := range rows {
		if c >= len(row) || row[c] == nil {
			continue
		}
		n, ok := row[c].(json.Number)
		if !ok {
			return pro.KindString
		}
		if _, err := n.Int64(); err == nil && !strings.ContainsAny(n.String(), ".eE") {
			if kind != pro.KindNumeric {
				kind = pro.KindInteger
			}
			continue
		}
		kind = pro.KindNumeric
	}
	return kind
}

// valueText renders a decoded JSON value as cell text.
func valueText(v any) (s string, isNull bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return x, false
	case json.Number:
		return x.String(), false
	case bool:
		if x {
			return "true", false
		}
		return "false", false
	default:
		return fmt.Sprint(x), false
	}
}
