// Package export writes reconciliation groups as CSV for download.
//
// Every field is wrapped in double quotes with no escaping, and empty or zero
// values are written as "".
package export

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"provider-reconciliation/internal/domain"
	"provider-reconciliation/internal/reconcile"
)

// Standard file names used by Files.
const (
	MatchedFile      = "matched_transactions.csv"
	InternalOnlyFile = "internal_only_transactions.csv"
	ProviderOnlyFile = "provider_only_transactions.csv"
)

var matchedColumns = []string{
	"transaction_reference",
	"internal_amount",
	"provider_amount",
	"internal_status",
	"provider_status",
	"mismatches",
}

type row map[string]string

// WriteRecords writes records with columns taken from the first record.
func WriteRecords(w io.Writer, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]row, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordRow(r))
	}
	return write(w, recordColumns(records[0]), rows)
}

// WriteMatched writes one line per matched pair.
func WriteMatched(w io.Writer, pairs []domain.MatchedPair) error {
	if len(pairs) == 0 {
		return nil
	}
	rows := make([]row, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, row{
			"transaction_reference": p.Internal.Reference,
			"internal_amount":       formatAmount(p.Internal.Amount),
			"provider_amount":       formatAmount(p.Provider.Amount),
			"internal_status":       p.Internal.Status,
			"provider_status":       p.Provider.Status,
			"mismatches":            strings.Join(p.Mismatches, "; "),
		})
	}
	return write(w, matchedColumns, rows)
}

// Files writes the three standard export files into dir and returns the
// paths written. Empty groups produce no file.
func Files(dir string, outcome domain.ReconciliationOutcome) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create export directory %s", dir)
	}

	var written []string
	save := func(name string, empty bool, fn func(io.Writer) error) error {
		if empty {
			return nil
		}
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", path)
		}
		if err := fn(f); err != nil {
			f.Close()
			return errors.Wrapf(err, "failed to write %s", path)
		}
		if err := f.Close(); err != nil {
			return errors.Wrapf(err, "failed to close %s", path)
		}
		written = append(written, path)
		return nil
	}

	if err := save(MatchedFile, len(outcome.Matched) == 0, func(w io.Writer) error {
		return WriteMatched(w, outcome.Matched)
	}); err != nil {
		return written, err
	}
	if err := save(InternalOnlyFile, len(outcome.InternalOnly) == 0, func(w io.Writer) error {
		return WriteRecords(w, outcome.InternalOnly)
	}); err != nil {
		return written, err
	}
	if err := save(ProviderOnlyFile, len(outcome.ProviderOnly) == 0, func(w io.Writer) error {
		return WriteRecords(w, outcome.ProviderOnly)
	}); err != nil {
		return written, err
	}
	return written, nil
}

// recordColumns follows the source header order when the record was parsed.
// Hand-built records fall back to their non-empty fields and sorted extras.
func recordColumns(r domain.Record) []string {
	cols := []string{"transaction_reference", "amount", "status"}
	if r.Columns != nil {
		return append(cols, r.Columns...)
	}
	if r.Date != "" {
		cols = append(cols, "date")
	}
	if r.Description != "" {
		cols = append(cols, "description")
	}
	extra := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

func recordRow(r domain.Record) row {
	out := row{
		"transaction_reference": r.Reference,
		"amount":                formatAmount(r.Amount),
		"status":                r.Status,
		"date":                  r.Date,
		"description":           r.Description,
	}
	for k, v := range r.Extra {
		out[k] = v
	}
	return out
}

// formatAmount leaves zero and NaN blank, the same as any other empty value.
func formatAmount(amount float64) string {
	if amount == 0 || math.IsNaN(amount) {
		return ""
	}
	return reconcile.FormatAmount(amount)
}

func write(w io.Writer, columns []string, rows []row) error {
	var sb strings.Builder
	sb.WriteString(strings.Join(columns, ","))
	for _, r := range rows {
		sb.WriteByte('\n')
		for i, col := range columns {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('"')
			sb.WriteString(r[col])
			sb.WriteByte('"')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
