// ABOUTME: Tolerant CSV parsing of the article sheet into header-keyed rows
// ABOUTME: Malformed records are skipped and reported instead of failing the whole sheet

package parse

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/harper/smilefeed/internal/models"
)

// ErrNoHeader is returned when the input has no header record.
var ErrNoHeader = errors.New("csv has no header row")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// requiredColumns must appear in the header for rows to carry data.
var requiredColumns = []string{models.ColumnTitle, models.ColumnContent}

// SkippedRecord describes a record dropped during parsing.
type SkippedRecord struct {
	Line int
	Err  error
}

// ParsedSheet is the result of parsing an article CSV.
type ParsedSheet struct {
	Header  []string
	Rows    []models.Row
	Skipped []SkippedRecord
}

// MissingColumns returns required columns absent from the header.
func (p *ParsedSheet) MissingColumns() []string {
	have := make(map[string]bool, len(p.Header))
	for _, h := range p.Header {
		have[h] = true
	}
	var missing []string
	for _, c := range requiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// Parse reads CSV data whose first record is the header. Records with
// broken quoting are skipped and listed in Skipped; records with fewer or
// more fields than the header are kept, missing fields read as empty.
// An unterminated quote only costs the record it opens: reading resumes on
// the line after that record's first line.
func Parse(data []byte) (*ParsedSheet, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := newReader(data)
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	sheet := &ParsedSheet{Header: header}
	base, lineBase := 0, 0 // position of r's input within data
	for {
		start := base + int(r.InputOffset())
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return sheet, fmt.Errorf("read record: %w", err)
			}
			line := lineBase + pe.StartLine
			sheet.Skipped = append(sheet.Skipped, SkippedRecord{Line: line, Err: pe.Err})
			if pe.Line > pe.StartLine {
				r, base, lineBase = resync(data, line)
			}
			continue
		}

		line, _ := r.FieldPos(0)
		line += lineBase

		// encoding/csv accepts a quote left open until EOF.
		if base+int(r.InputOffset()) == len(data) && unterminated(data[start:]) {
			sheet.Skipped = append(sheet.Skipped, SkippedRecord{Line: line, Err: csv.ErrQuote})
			r, base, lineBase = resync(data, line)
			continue
		}

		if isBlank(record) {
			continue
		}

		row := models.RowFromRecord(keyRecord(header, record))
		row.Line = line
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}

func newReader(data []byte) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	return r
}

// resync returns a reader starting on the line after line (1-based), with
// the byte and line offsets of its input within data.
func resync(data []byte, line int) (*csv.Reader, int, int) {
	off := 0
	for i := 0; i < line; i++ {
		next := bytes.IndexByte(data[off:], '\n')
		if next < 0 {
			off = len(data)
			break
		}
		off += next + 1
	}
	return newReader(data[off:]), off, line
}

// unterminated reports whether raw record text has an odd number of quotes.
// Well-formed quoting always pairs them.
func unterminated(raw []byte) bool {
	return bytes.Count(raw, []byte{'"'})%2 == 1
}

// readHeader reads the first well-formed record and trims its names.
func readHeader(r *csv.Reader) ([]string, error) {
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil, ErrNoHeader
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, fmt.Errorf("%w: %v", ErrNoHeader, err)
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		if isBlank(record) {
			continue
		}
		header := make([]string, len(record))
		for i, h := range record {
			header[i] = strings.TrimSpace(h)
		}
		return header, nil
	}
}

// keyRecord maps header names to values. The first column with a given
// name wins.
func keyRecord(header, record []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(record) {
			break
		}
		if _, dup := m[name]; dup {
			continue
		}
		m[name] = record[i]
	}
	return m
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
