// Package extract reads a single column out of a spreadsheet export.
//
// The CSV reader mirrors what "CSV UTF-8 (Comma delimited)" exports from
// Excel look like in practice:
//
//   - a leading UTF-8 byte-order mark is discarded
//   - rows end at LF, CRLF or a lone CR, and a blank line is an empty row
//   - quoted cells may carry embedded commas, quotes and line breaks
//   - rows may have fewer cells than the requested column
//
// Every cell is passed through [NormalizeCell] before it is returned, so
// callers always see "\n" line endings and no stray wrapping quotes.
package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrNoData is returned when a file yields zero data rows.
	ErrNoData = errors.New("csv has no data rows")

	// ErrEncoding is returned when the input is not valid UTF-8.
	ErrEncoding = errors.New("encoding error: file is not valid UTF-8")

	// ErrInvalidCSV wraps parse failures from the CSV reader.
	ErrInvalidCSV = errors.New("invalid csv")
)

// Options controls which column is read and how rows are parsed.
type Options struct {
	// Column is the zero-based column index.
	Column int

	// SkipHeader discards the first parsed row.
	SkipHeader bool

	// Delimiter separates fields (default ',').
	Delimiter rune

	// Quote is the quote character. Only '"' is supported.
	Quote rune

	// LazyQuotes tolerates bare quotes inside unquoted fields.
	LazyQuotes bool

	// Sheet selects the workbook sheet for XLSX sources.
	// Empty means the first sheet.
	Sheet string
}

// DefaultOptions returns the options matching an Excel CSV export.
func DefaultOptions() Options {
	return Options{
		Column:     0,
		SkipHeader: false,
		Delimiter:  ',',
		Quote:      '"',
		LazyQuotes: true,
	}
}

// Validate reports whether the options can be handed to the CSV reader.
func (o Options) Validate() error {
	if o.Column < 0 {
		return fmt.Errorf("column index %d must be non-negative", o.Column)
	}
	if o.Quote != '"' {
		return fmt.Errorf("unsupported quote character %q: only '\"' is supported", o.Quote)
	}
	if !validDelimiter(o.Delimiter) {
		return fmt.Errorf("invalid delimiter %q", o.Delimiter)
	}
	return nil
}

// validDelimiter matches the rules of encoding/csv.
func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// ReadColumn opens path and extracts the configured column.
// The file is read fully once and always closed.
func ReadColumn(path string, opts Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	values, err := ExtractColumn(f, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// ExtractColumn reads all of r as BOM-aware UTF-8 CSV and returns the
// normalized values of the configured column in row order.
func ExtractColumn(r io.Reader, opts Options) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	content, err := decode(r)
	if err != nil {
		return nil, err
	}

	content = splitLoneCR(content, opts.Delimiter)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = opts.Delimiter
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1

	// encoding/csv skips blank lines. Each one is still a row of the
	// sheet, so the gap between records is filled with empty values.
	var values []string
	next := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}

		start, _ := reader.FieldPos(0)
		for ; next < start; next++ {
			values = append(values, "")
		}
		values = append(values, cell(row, opts.Column))

		last := len(row) - 1
		end, _ := reader.FieldPos(last)
		next = end + strings.Count(row[last], "\n") + 1
	}
	for total := countLines(content); next <= total; next++ {
		values = append(values, "")
	}

	// The header is the first row even when it is blank.
	if opts.SkipHeader && len(values) > 0 {
		values = values[1:]
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}
	return values, nil
}

// splitLoneCR turns a CR that is not followed by LF into LF when it sits
// outside a quoted field, so CR-terminated exports split into rows. A CR
// inside quotes is left for NormalizeCell.
func splitLoneCR(content []byte, delim rune) []byte {
	if bytes.IndexByte(content, '\r') < 0 {
		return content
	}

	const (
		fieldStart = iota
		unquoted
		quoted
		quoteInQuoted
	)

	out := bytes.Clone(content)
	s := string(content)
	state := fieldStart
	for i, r := range s {
		switch state {
		case quoted:
			if r == '"' {
				state = quoteInQuoted
			}
			continue
		case quoteInQuoted:
			if r == '"' {
				state = quoted
				continue
			}
		case fieldStart:
			if r == '"' {
				state = quoted
				continue
			}
		}

		switch r {
		case delim, '\n':
			state = fieldStart
		case '\r':
			if i+1 == len(s) || s[i+1] != '\n' {
				out[i] = '\n'
			}
			state = fieldStart
		default:
			if state == quoteInQuoted {
				// A lazy quote inside a quoted field.
				state = quoted
			} else {
				state = unquoted
			}
		}
	}
	return out
}

// countLines counts lines the way encoding/csv numbers them.
func countLines(content []byte) int {
	n := bytes.Count(content, []byte{'\n'})
	if len(content) > 0 && content[len(content)-1] != '\n' {
		n++
	}
	return n
}

// decode reads r fully, rejects invalid UTF-8 and drops a leading BOM.
func decode(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, ErrEncoding
	}

	content, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return content, nil
}

// cell returns the normalized value at column, or "" when the row is short.
func cell(row []string, column int) string {
	if len(row) <= column {
		return ""
	}
	return NormalizeCell(row[column])
}

// NormalizeCell converts CRLF and lone CR to LF and strips one pair of
// wrapping quotes that survived parsing.
//
// Only a cell of at least two characters that both starts and ends with a
// quote is unwrapped. A cell with a quote on one side only is returned as is.
func NormalizeCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s
}

// Preview returns up to n values formatted for debugging, one per line,
// numbered from 1 with Go quoting so hidden characters stay visible.
func Preview(values []string, n int) []string {
	if n > len(values) {
		n = len(values)
	}
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = fmt.Sprintf("Row %d: %q", i+1, values[i])
	}
	return out
}
