// Package reconcile pairs internal records with provider records by reference
// and reports how the pairs differ.
package reconcile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"provider-reconciliation/internal/domain"
)

// AmountTolerance is the largest absolute amount difference still treated
// as equal.
const AmountTolerance = 0.01

// Reconcile classifies every internal record as matched or internal-only and
// every provider record as matched or provider-only.
//
// When a reference repeats on one side the last occurrence is the one looked
// up, but every internal occurrence still produces its own entry.
func Reconcile(internal, provider []domain.Record) domain.ReconciliationOutcome {
	outcome := domain.ReconciliationOutcome{
		Matched:      make([]domain.MatchedPair, 0),
		InternalOnly: make([]domain.Record, 0),
		ProviderOnly: make([]domain.Record, 0),
	}

	providerByRef := indexByReference(provider)
	internalByRef := indexByReference(internal)

	for _, internalTx := range internal {
		providerTx, ok := providerByRef[internalTx.Reference]
		if !ok {
			outcome.InternalOnly = append(outcome.InternalOnly, internalTx)
			continue
		}
		outcome.Matched = append(outcome.Matched, domain.MatchedPair{
			Internal:   internalTx,
			Provider:   providerTx,
			Mismatches: compare(internalTx, providerTx),
		})
	}

	for _, providerTx := range provider {
		if _, ok := internalByRef[providerTx.Reference]; !ok {
			outcome.ProviderOnly = append(outcome.ProviderOnly, providerTx)
		}
	}

	return outcome
}

func indexByReference(records []domain.Record) map[string]domain.Record {
	m := make(map[string]domain.Record, len(records))
	for _, r := range records {
		m[r.Reference] = r
	}
	return m
}

func compare(internalTx, providerTx domain.Record) []string {
	mismatches := make([]string, 0, 2)
	if math.Abs(internalTx.Amount-providerTx.Amount) > AmountTolerance {
		mismatches = append(mismatches, fmt.Sprintf("Amount: Internal %s vs Provider %s",
			FormatAmount(internalTx.Amount), FormatAmount(providerTx.Amount)))
	}
	if !strings.EqualFold(internalTx.Status, providerTx.Status) {
		mismatches = append(mismatches, fmt.Sprintf("Status: Internal \"%s\" vs Provider \"%s\"",
			internalTx.Status, providerTx.Status))
	}
	return mismatches
}

// FormatAmount renders an amount with the fewest digits that round-trip.
// Magnitudes of 1e21 and above or below 1e-6 use exponent form, such as
// "1e+21" and "1.5e-7".
func FormatAmount(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return "NaN"
	case math.IsInf(amount, 1):
		return "Infinity"
	case math.IsInf(amount, -1):
		return "-Infinity"
	}
	abs := math.Abs(amount)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}
	s := strconv.FormatFloat(amount, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Summarize computes the headline figures shown alongside an outcome. Pairs
// with a non-finite amount are left out of the discrepancy total.
func Summarize(outcome domain.ReconciliationOutcome) domain.Summary {
	s := domain.Summary{
		MatchedTransactions:   len(outcome.Matched),
		UnmatchedTransactions: len(outcome.InternalOnly) + len(outcome.ProviderOnly),
	}
	s.TotalTransactions = s.MatchedTransactions + s.UnmatchedTransactions

	discrepancy := decimal.Zero
	for _, pair := range outcome.Matched {
		if pair.HasMismatches() {
			s.MismatchedTransactions++
		}
		if !finite(pair.Internal.Amount) || !finite(pair.Provider.Amount) {
			continue
		}
		diff := decimal.NewFromFloat(pair.Internal.Amount).Sub(decimal.NewFromFloat(pair.Provider.Amount))
		discrepancy = discrepancy.Add(diff.Abs())
	}
	s.TotalDiscrepancyValue = discrepancy.StringFixed(2)

	if s.TotalTransactions > 0 {
		s.MatchPercentage = float64(s.MatchedTransactions) / float64(s.TotalTransactions) * 100
	}
	return s
}
