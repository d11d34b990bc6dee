package pro

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

var errInvalidUTF8 = errors.New("invalid UTF-8")

// Decoder turns raw bytes into text for one candidate encoding.
type Decoder struct {
	Name   string
	Decode func([]byte) (string, error)
}

// DecoderChain is an ordered list of candidate decoders. The first one that
// succeeds wins.
type DecoderChain []Decoder

// UTF8 accepts only well-formed UTF-8.
var UTF8 = Decoder{
	Name: "utf-8",
	Decode: func(b []byte) (string, error) {
		if !utf8.Valid(b) {
			return "", errInvalidUTF8
		}
		return string(b), nil
	},
}

// Latin1 decodes ISO-8859-1. Every byte sequence is valid.
var Latin1 = EncodingDecoder("iso-8859-1", charmap.ISO8859_1)

// EncodingDecoder adapts an x/text encoding to a Decoder.
func EncodingDecoder(name string, enc encoding.Encoding) Decoder {
	return Decoder{
		Name: name,
		Decode: func(b []byte) (string, error) {
			out, err := enc.NewDecoder().Bytes(b)
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
	}
}

// DefaultDecoders tries UTF-8 first and falls back to ISO-8859-1.
func DefaultDecoders() DecoderChain {
	return DecoderChain{UTF8, Latin1}
}

// DecodersByName builds a chain from IANA encoding names such as
// "utf-8" or "windows-1252". "utf-8" is strict.
func DecodersByName(names []string) (DecoderChain, error) {
	chain := make(DecoderChain, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
			chain = append(chain, UTF8)
			continue
		}
		enc, err := ianaindex.IANA.Encoding(name)
		if err != nil {
			return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
		}
		if enc == nil {
			return nil, fmt.Errorf("unknown encoding %q: not supported", name)
		}
		chain = append(chain, EncodingDecoder(strings.ToLower(name), enc))
	}
	if len(chain) == 0 {
		return nil, errors.New("decoder chain is empty")
	}
	return chain, nil
}

// Names lists the decoder names in order.
func (c DecoderChain) Names() []string {
	names := make([]string, len(c))
	for i, d := range c {
		names[i] = d.Name
	}
	return names
}

// decode tries each decoder in turn. line is only used for error reporting.
func (c DecoderChain) decode(b []byte, line int) (string, error) {
	var first error
	for _, d := range c {
		s, err := d.Decode(b)
		if err == nil {
			return s, nil
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		first = errors.New("decoder chain is empty")
	}
	return "", &DecodeError{Line: line, Encodings: c.Names(), Err: first}
}

// decodeBlock decodes lines[0:] as one text using the first decoder that
// accepts the whole block, so every line shares one encoding. offset is the
// document index of lines[0]. When no decoder accepts the block the first
// undecodable line is reported.
func (c DecoderChain) decodeBlock(lines [][]byte, offset int) (string, error) {
	block := bytes.Join(lines, []byte("\n"))
	for _, d := range c {
		if s, err := d.Decode(block); err == nil {
			return s, nil
		}
	}
	for i, line := range lines {
		if _, err := c.decode(line, offset+i); err != nil {
			return "", err
		}
	}
	// Every line decodes on its own but no single decoder takes them all.
	_, err := c.decode(block, offset)
	return "", err
}

// ScanPreamble splits a document into preamble and body lines.
//
// With a nil pattern every line is body. Otherwise each line is decoded with
// the chain and matched against pattern; the first match starts the body and
// all earlier lines form the preamble. Without a match the whole document is
// body. A line that no decoder accepts fails the scan with a *DecodeError.
func ScanPreamble(lines [][]byte, pattern *regexp.Regexp, decoders DecoderChain) (preamble, body [][]byte, err error) {
	if pattern == nil {
		return nil, lines, nil
	}
	if len(decoders) == 0 {
		decoders = DefaultDecoders()
	}

	for i, line := range lines {
		text, err := decoders.decode(line, i)
		if err != nil {
			return nil, nil, err
		}
		if pattern.MatchString(text) {
			return lines[:i], lines[i:], nil
		}
	}
	return nil, lines, nil
}
