package pro

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// EndMarker terminates the data section when it follows a blank line.
const EndMarker = "##END##"

// ReadOptions controls Read.
type ReadOptions struct {
	// HeaderPattern identifies the header line. Lines before the first match
	// form the preamble. Nil means the document has no preamble.
	HeaderPattern *regexp.Regexp

	// Decoders is tried in order for every line. Defaults to UTF-8 then
	// ISO-8859-1.
	Decoders DecoderChain

	// Comma is the field delimiter (default ',').
	Comma rune

	// Types, when set, replaces the VARIABLE_TYPES declarations and disables
	// date conversion.
	Types map[string]Kind

	Logger *slog.Logger
}

func (o ReadOptions) withDefaults() ReadOptions {
	if len(o.Decoders) == 0 {
		o.Decoders = DefaultDecoders()
	}
	if o.Comma == 0 {
		o.Comma = ','
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// CompileHeaderPattern compiles an optional header pattern. The empty string
// yields nil.
func CompileHeaderPattern(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidHeaderPattern, expr, err)
	}
	return re, nil
}

// ReadFile reads a PRO file from disk.
func ReadFile(path string, opts ReadOptions) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Read(data, opts)
}

// ReadFrom reads a PRO document from r, skipping a UTF-8 byte order mark.
func ReadFrom(r io.Reader, opts ReadOptions) (*Table, error) {
	data, err := io.ReadAll(NewBOMSkippingReader(r))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Read(data, opts)
}

// Read decodes a PRO document into a typed table.
func Read(data []byte, opts ReadOptions) (*Table, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	lines := bytes.Split(data, []byte("\n"))
	preamble, body, err := ScanPreamble(lines, opts.HeaderPattern, opts.Decoders)
	if err != nil {
		return nil, err
	}
	body = trimTrailer(body)

	text, err := opts.Decoders.decodeBlock(body, len(preamble))
	if err != nil {
		return nil, err
	}

	records, err := readRecords(text, opts.Comma)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyDocument
	}
	header := records[0]

	decl, err := ExtractTypes(preamble, header, opts.Comma)
	if err != nil {
		return nil, err
	}
	if decl.Misaligned() {
		logger.Warn("variable types do not match header",
			"declared", decl.Declared,
			"columns", decl.Columns,
		)
	}

	raw, err := NewTextTable(header, records[1:])
	if err != nil {
		return nil, err
	}
	t := DecodeSentinel(raw)

	types := decl.Types
	if opts.Types != nil {
		types = make(TypeMap, len(opts.Types))
		for name, k := range opts.Types {
			if k == KindDate {
				// Caller-supplied types carry no pattern.
				k = KindString
			}
			types[name] = ColumnType{Kind: k}
		}
	}

	if err := applyTypes(t, types, logger); err != nil {
		return nil, err
	}

	logger.Debug("pro document read",
		"preamble_lines", len(preamble),
		"columns", len(t.Columns),
		"rows", t.NumRows(),
		"declared_types", len(decl.Types),
		"marker_column", len(t.Columns) != len(raw.Columns),
	)
	return t, nil
}

// trimTrailer drops everything from a blank line that is directly followed
// by an ##END## line.
func trimTrailer(lines [][]byte) [][]byte {
	for i := 0; i < len(lines)-1; i++ {
		if len(bytes.TrimRight(lines[i], "\r")) != 0 {
			continue
		}
		if bytes.HasSuffix(bytes.TrimRight(lines[i+1], "\r"), []byte(EndMarker)) {
			return lines[:i]
		}
	}
	return lines
}

func readRecords(text string, comma rune) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return records, nil
}

// applyTypes replaces the text cells of t with typed cells, in place.
func applyTypes(t *Table, types TypeMap, logger *slog.Logger) error {
	for c := range t.Columns {
		col := &t.Columns[c]
		values := make([]string, len(col.Cells))
		for i, cell := range col.Cells {
			values[i], _ = textValue(cell)
		}

		ct, declared := types[col.Name]
		if !declared {
			ct = ColumnType{Kind: inferKind(values)}
		}

		switch ct.Kind {
		case KindNumeric:
			for i, v := range values {
				f := ToFloat8(v)
				if !f.Valid && !isBlank(v) {
					return &CellError{Column: col.Name, Row: i, Value: v, Kind: KindNumeric}
				}
				col.Cells[i] = f
			}
		case KindInteger:
			for i, v := range values {
				n := ToInt8(v)
				if !n.Valid && !isBlank(v) {
					return &CellError{Column: col.Name, Row: i, Value: v, Kind: KindInteger}
				}
				col.Cells[i] = n
			}
		case KindDate:
			if !convertDates(col, values, ct, logger) {
				ct = ColumnType{Kind: KindString, ExcelPattern: ct.ExcelPattern, Pattern: ct.Pattern}
			}
		}
		col.Type = ct
	}
	return nil
}

// convertDates parses a date column in place. When the pattern is unusable
// or any cell fails to parse the column is left as text and false is
// returned.
func convertDates(col *Column, values []string, ct ColumnType, logger *slog.Logger) bool {
	layouts, err := parseLayouts(ct.Pattern)
	if err != nil {
		logger.Warn("date column kept as text",
			"column", col.Name,
			"excel_pattern", ct.ExcelPattern,
			"error", err,
		)
		return false
	}

	cells := make([]any, len(values))
	for i, v := range values {
		ts := ToTimestamp(v, layouts...)
		if !ts.Valid && !isBlank(v) {
			logger.Warn("date column kept as text",
				"column", col.Name,
				"excel_pattern", ct.ExcelPattern,
				"row", i,
				"value", v,
			)
			return false
		}
		cells[i] = ts
	}
	col.Cells = cells
	return true
}
