package config

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/JonMunkholm/procodec/internal/pro"
)

// Comma returns the configured delimiter as a rune.
func (c *CodecConfig) Comma() (rune, error) {
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, fmt.Errorf("PRO_DELIMITER (%q) must be a single character", c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("PRO_DELIMITER (%q) is not a valid delimiter", c.Delimiter)
	}
	return r, nil
}

// ReadOptions builds reader defaults from the codec settings. The logger is
// left for the caller to set.
func (c *CodecConfig) ReadOptions() (pro.ReadOptions, error) {
	pattern, err := pro.CompileHeaderPattern(c.HeaderPattern)
	if err != nil {
		return pro.ReadOptions{}, fmt.Errorf("PRO_HEADER_PATTERN: %w", err)
	}
	decoders, err := pro.DecodersByName(c.Encodings)
	if err != nil {
		return pro.ReadOptions{}, fmt.Errorf("PRO_ENCODINGS: %w", err)
	}
	comma, err := c.Comma()
	if err != nil {
		return pro.ReadOptions{}, err
	}
	return pro.ReadOptions{
		HeaderPattern: pattern,
		Decoders:      decoders,
		Comma:         comma,
	}, nil
}

// WriteOptions builds writer defaults from the codec settings.
func (c *CodecConfig) WriteOptions() (pro.WriteOptions, error) {
	enc, err := OutputCharmap(c.OutputEncoding)
	if err != nil {
		return pro.WriteOptions{}, fmt.Errorf("PRO_OUTPUT_ENCODING: %w", err)
	}
	comma, err := c.Comma()
	if err != nil {
		return pro.WriteOptions{}, err
	}
	return pro.WriteOptions{
		Comma:    comma,
		Encoding: enc,
		UseCRLF:  c.UseCRLF,
	}, nil
}

// OutputCharmap resolves an IANA name to a single-byte charmap.
func OutputCharmap(name string) (*charmap.Charmap, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	cm, ok := enc.(*charmap.Charmap)
	if !ok {
		return nil, fmt.Errorf("encoding %q is not a single-byte charset", name)
	}
	return cm, nil
}
