package pro

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// WriteOptions controls Write.
type WriteOptions struct {
	// Comma is the field delimiter (default ',').
	Comma rune

	// Encoding is the single-byte output charset (default ISO-8859-1).
	Encoding *charmap.Charmap

	// NewToken generates the marker placeholder (default NewToken).
	NewToken TokenFunc

	// UseCRLF terminates lines with \r\n.
	UseCRLF bool
}

func (o WriteOptions) withDefaults() WriteOptions {
	if o.Comma == 0 {
		o.Comma = ','
	}
	if o.Encoding == nil {
		o.Encoding = charmap.ISO8859_1
	}
	if o.NewToken == nil {
		o.NewToken = NewToken
	}
	return o
}

// WriteFile writes t to path as a PRO file.
func WriteFile(path string, t *Table, opts WriteOptions) error {
	data, err := Marshal(t, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Write serializes t as a PRO document to w.
func Write(w io.Writer, t *Table, opts WriteOptions) error {
	data, err := Marshal(t, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal serializes t as a PRO document.
//
// The header row uses minimal quoting. In the body every non-numeric cell is
// quoted, so the marker placeholder is always quoted and can be rewritten to a
// bare "*" without touching data cells.
func Marshal(t *Table, opts WriteOptions) ([]byte, error) {
	opts = opts.withDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}

	encoded, token := EncodeSentinel(t, opts.NewToken)

	var header bytes.Buffer
	cw := csv.NewWriter(&header)
	cw.Comma = opts.Comma
	cw.UseCRLF = opts.UseCRLF
	if err := cw.Write(encoded.ColumnNames()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	var body bytes.Buffer
	writeBody(&body, encoded, opts)

	out := append(header.Bytes(), ReplaceSentinel(body.Bytes(), token)...)
	data, err := opts.Encoding.NewEncoder().Bytes(out)
	if err != nil {
		return nil, fmt.Errorf("encode output as %s: %w", opts.Encoding, err)
	}
	return data, nil
}

// writeBody writes all rows quoting every non-numeric, non-empty cell.
func writeBody(buf *bytes.Buffer, t *Table, opts WriteOptions) {
	layouts := make([]string, len(t.Columns))
	for c, col := range t.Columns {
		layouts[c] = col.Type.Layout()
	}

	newline := "\n"
	if opts.UseCRLF {
		newline = "\r\n"
	}

	n := t.NumRows()
	for i := 0; i < n; i++ {
		for c := range t.Columns {
			if c > 0 {
				buf.WriteRune(opts.Comma)
			}
			s, numeric, null := formatCell(t.Columns[c].Cells[i], layouts[c])
			switch {
			case null:
			case numeric:
				buf.WriteString(s)
			default:
				buf.WriteByte('"')
				buf.WriteString(strings.ReplaceAll(s, `"`, `""`))
				buf.WriteByte('"')
			}
		}
		buf.WriteString(newline)
	}
}
