package pro

// stream.go provides reader wrappers used when PRO documents arrive as
// streams (HTTP bodies, files exported from Windows tools).
//
//   - BOMSkippingReader: removes a UTF-8 BOM (0xEF 0xBB 0xBF)
//   - CountingReader: tracks bytes read and enforces an optional size limit

import (
	"errors"
	"io"
)

// ErrDocumentTooLarge is returned by CountingReader once the limit is exceeded.
var ErrDocumentTooLarge = errors.New("file too large")

var utf8BOM = [3]byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	reader     io.Reader
	bomChecked bool
	buf        [3]byte
	pending    []byte
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.bomChecked {
		r.bomChecked = true

		n, err := io.ReadFull(r.reader, r.buf[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if n == 3 && r.buf == utf8BOM {
			n = 0
		}
		r.pending = r.buf[:n]
		if err != nil && err != io.EOF {
			return 0, err
		}
		if err == io.EOF && len(r.pending) == 0 {
			return 0, io.EOF
		}
	}

	if len(r.pending) > 0 {
		copied := copy(p, r.pending)
		r.pending = r.pending[copied:]
		return copied, nil
	}

	return r.reader.Read(p)
}

// CountingReader wraps an io.Reader to track bytes read. With a positive
// Limit, reading past it fails with ErrDocumentTooLarge.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Limit     int64
}

// NewCountingReader creates a counting reader; limit <= 0 disables the check.
func NewCountingReader(r io.Reader, limit int64) *CountingReader {
	return &CountingReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Limit > 0 && r.BytesRead > r.Limit {
		return n, ErrDocumentTooLarge
	}
	return n, err
}
