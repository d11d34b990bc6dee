package pro

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
)

// VariableTypesPrefix starts the preamble line that declares column types.
const VariableTypesPrefix = "VARIABLE_TYPES"

// duplicateSuffix matches the ".N" suffix used to keep repeated codes apart.
var duplicateSuffix = regexp.MustCompile(`\.\d+$`)

// Declarations is the outcome of reading a VARIABLE_TYPES line.
type Declarations struct {
	// Types holds one entry per column with an S, N, I or D code.
	Types TypeMap

	// DatePatterns maps each date column to its translated strftime pattern.
	DatePatterns map[string]string

	// Found is false when the preamble has no VARIABLE_TYPES line.
	Found bool

	// Declared is the number of codes on the line, Columns the number of
	// header columns they were aligned with.
	Declared int
	Columns  int
}

// Misaligned reports whether codes and header columns differ in number.
// Pairing then stops at the shorter of the two.
func (d *Declarations) Misaligned() bool {
	return d.Found && d.Declared != d.Columns
}

// ExtractTypes reads the first VARIABLE_TYPES line of the preamble and pairs
// its codes with the header.
//
// The first field of the line is the line's own marker and is dropped, as is
// the header's first (marker) column, so code i lines up with header[i+1].
// Without a VARIABLE_TYPES line both maps are empty.
func ExtractTypes(preamble [][]byte, header []string, comma rune) (*Declarations, error) {
	decl := &Declarations{
		Types:        make(TypeMap),
		DatePatterns: make(map[string]string),
	}

	var line []byte
	for _, l := range preamble {
		if bytes.HasPrefix(l, []byte(VariableTypesPrefix)) {
			line = l
			break
		}
	}
	if line == nil {
		return decl, nil
	}
	decl.Found = true

	codes, err := parseDeclarationLine(line, comma)
	if err != nil {
		return nil, err
	}

	columns := header
	if len(columns) > 0 {
		columns = columns[1:]
	}
	decl.Declared = len(codes)
	decl.Columns = len(columns)

	for i, code := range codes {
		if i >= len(columns) {
			break
		}
		d := Declaration{Code: code}
		if d.Kind() == KindInferred {
			continue
		}
		ct := d.ColumnType()
		decl.Types[columns[i]] = ct
		if ct.Kind == KindDate {
			decl.DatePatterns[columns[i]] = ct.Pattern
		}
	}

	return decl, nil
}

// parseDeclarationLine returns the codes of a VARIABLE_TYPES line without its
// leading field and with duplicate suffixes removed.
func parseDeclarationLine(line []byte, comma rune) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimRight(line, "\r")))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: parse %s line: %w", VariableTypesPrefix, err)
	}
	if len(fields) <= 1 {
		return nil, nil
	}

	codes := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		codes = append(codes, duplicateSuffix.ReplaceAllString(f, ""))
	}
	return codes, nil
}
