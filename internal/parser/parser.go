// Package parser turns delimited transaction exports into domain records.
//
// Column roles are sniffed from header names, so exports from different
// systems can be read without a schema. Parsing is lenient: malformed rows and
// rows without a reference are dropped, and unparseable amounts become zero.
package parser

import (
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"provider-reconciliation/internal/domain"
)

type role int

const (
	roleExtra role = iota
	roleReference
	roleAmount
	roleStatus
	roleDate
	roleDescription
)

var (
	nonNumeric   = regexp.MustCompile(`[^0-9.\-]`)
	leadingFloat = regexp.MustCompile(`^-?(?:[0-9]+\.?[0-9]*|\.[0-9]+)`)
)

// Options controls how raw text is split into rows and fields.
type Options struct {
	// QuoteAware enables RFC 4180 splitting, so quoted fields may contain
	// commas. The default is a plain comma split.
	QuoteAware bool
}

// Parser converts raw CSV text into records.
type Parser struct {
	opts Options
}

// NewParser creates a parser with the given options.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse reads text with the default options.
func Parse(text string) []domain.Record {
	return NewParser(Options{}).Parse(text)
}

// Parse converts text into records. It never fails; the worst case is an
// empty slice.
func (p *Parser) Parse(text string) []domain.Record {
	var rows [][]string
	if p.opts.QuoteAware {
		rows = splitQuoted(text)
	} else {
		rows = splitPlain(text)
	}

	records := make([]domain.Record, 0)
	if len(rows) < 2 {
		return records
	}

	headers := rows[0]
	roles := make([]role, len(headers))
	for i, h := range headers {
		roles[i] = roleOf(h)
	}
	columns := columnsOf(headers, roles)

	for _, values := range rows[1:] {
		if len(values) != len(headers) {
			continue
		}
		rec := buildRecord(headers, roles, values)
		if rec.Reference == "" {
			continue
		}
		rec.Columns = columns
		records = append(records, rec)
	}
	return records
}

func buildRecord(headers []string, roles []role, values []string) domain.Record {
	var rec domain.Record
	for i, value := range values {
		switch roles[i] {
		case roleReference:
			rec.Reference = value
		case roleAmount:
			rec.Amount = ParseAmount(value)
		case roleStatus:
			rec.Status = value
		case roleDate:
			rec.Date = value
		case roleDescription:
			rec.Description = value
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[headers[i]] = value
		}
	}
	return rec
}

// columnsOf returns the record keys the headers introduce, in first-seen
// order. Reference, amount and status columns add none.
func columnsOf(headers []string, roles []role) []string {
	var columns []string
	seen := make(map[string]bool)
	for i, h := range headers {
		var key string
		switch roles[i] {
		case roleDate:
			key = "date"
		case roleDescription:
			key = "description"
		case roleExtra:
			key = h
		default:
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		columns = append(columns, key)
	}
	return columns
}

// roleOf matches in priority order, so "paid_amount" is a reference column
// because it contains "id".
func roleOf(header string) role {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "reference") || strings.Contains(h, "id"):
		return roleReference
	case strings.Contains(h, "amount"):
		return roleAmount
	case strings.Contains(h, "status"):
		return roleStatus
	case strings.Contains(h, "date"):
		return roleDate
	case strings.Contains(h, "description"):
		return roleDescription
	default:
		return roleExtra
	}
}

// ParseAmount drops every character other than digits, '.' and '-' and
// reads the longest numeric prefix of what is left. "$1,234.56" yields
// 1234.56; anything without a leading number yields 0.
func ParseAmount(value string) float64 {
	cleaned := nonNumeric.ReplaceAllString(value, "")
	prefix := leadingFloat.FindString(cleaned)
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || f == 0 {
		return 0
	}
	return f
}

func splitPlain(text string) [][]string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		cells := strings.Split(line, ",")
		for i, c := range cells {
			cells[i] = strings.ReplaceAll(strings.TrimSpace(c), `"`, "")
		}
		rows = append(rows, cells)
	}
	return rows
}

func splitQuoted(text string) [][]string {
	r := csv.NewReader(strings.NewReader(strings.TrimSpace(text)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A broken line leaves the reader unable to resync reliably.
			break
		}
		for i, c := range cells {
			cells[i] = strings.TrimSpace(c)
		}
		rows = append(rows, cells)
	}
	return rows
}
