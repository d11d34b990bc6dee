package pro

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyDocument is returned when the input holds no header line.
	ErrEmptyDocument = errors.New("empty document: no header line found")

	// ErrInvalidHeaderPattern wraps a header pattern that does not compile.
	ErrInvalidHeaderPattern = errors.New("invalid header pattern")
)

// DecodeError reports a line that no decoder in the chain could decode.
type DecodeError struct {
	Line      int      // zero-based line index in the document
	Encodings []string // decoders tried, in order
	Err       error    // failure of the first decoder
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("encoding error: line %d could not be decoded as any of [%s]: %v",
		e.Line, strings.Join(e.Encodings, ", "), e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// CellError reports a data cell that does not match its column type.
type CellError struct {
	Column string
	Row    int // zero-based data row
	Value  string
	Kind   Kind
}

func (e *CellError) Error() string {
	return fmt.Sprintf("invalid %s in column %q, row %d: %q", e.Kind, e.Column, e.Row, e.Value)
}

// FieldCountError reports a data row with more fields than the header.
type FieldCountError struct {
	Row    int
	Fields int
	Header int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("invalid csv: row %d has %d fields, header has %d", e.Row, e.Fields, e.Header)
}
