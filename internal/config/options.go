package config

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/JonMunkholm/framefill/internal/core"
	"github.com/JonMunkholm/framefill/internal/document"
	"github.com/JonMunkholm/framefill/internal/extract"
)

// delimiter returns the single delimiter rune.
func (c *CSVConfig) delimiter() (rune, error) {
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, errors.New("must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, errors.New("must not be a quote, newline or invalid character")
	}
	return r, nil
}

// quote returns the quote rune. Empty means the default '"'.
func (c *CSVConfig) quote() (rune, error) {
	if c.Quote == "" {
		return '"', nil
	}
	if c.Quote != `"` {
		return 0, errors.New(`must be '"', the only quote character exports use`)
	}
	return '"', nil
}

// ExtractOptions converts the CSV section into extraction options.
func (c *CSVConfig) ExtractOptions() (extract.Options, error) {
	d, err := c.delimiter()
	if err != nil {
		return extract.Options{}, fmt.Errorf("CSV_DELIMITER: %w", err)
	}
	q, err := c.quote()
	if err != nil {
		return extract.Options{}, fmt.Errorf("CSV_QUOTE: %w", err)
	}
	opts := extract.DefaultOptions()
	opts.Column = c.Column
	opts.SkipHeader = c.SkipHeader
	opts.Delimiter = d
	opts.Quote = q
	opts.LazyQuotes = c.LazyQuotes
	opts.Sheet = c.Sheet
	return opts, nil
}

// CoreFormat converts the format section.
func (c *FormatConfig) CoreFormat() (core.Format, error) {
	align, err := document.ParseAlignment(c.Alignment)
	if err != nil {
		return core.Format{}, fmt.Errorf("FORMAT_ALIGNMENT: %w", err)
	}
	mode, err := document.ParseLineSpacingMode(c.LineSpacingMode)
	if err != nil {
		return core.Format{}, fmt.Errorf("FORMAT_LINE_SPACING_MODE: %w", err)
	}
	return core.Format{
		Font:        c.Font,
		Size:        c.Size,
		Alignment:   align,
		LineSpacing: c.LineSpacing,
		LineMode:    mode,
	}, nil
}

// FillOptions builds the options every fill uses.
func (c *Config) FillOptions() (core.Options, error) {
	format, err := c.Format.CoreFormat()
	if err != nil {
		return core.Options{}, err
	}
	ext, err := c.CSV.ExtractOptions()
	if err != nil {
		return core.Options{}, err
	}
	return core.Options{
		Frame:   c.Frame.Name,
		Format:  format,
		Extract: ext,
	}, nil
}
