package domain

import "time"

// MatchedPair pairs an internal record with the provider record carrying the
// same reference. An empty Mismatches slice means the pair matched cleanly.
type MatchedPair struct {
	Internal   Record   `json:"internal"`
	Provider   Record   `json:"provider"`
	Mismatches []string `json:"mismatches"`
}

// HasMismatches reports whether the pair differs on amount or status.
func (p MatchedPair) HasMismatches() bool {
	return len(p.Mismatches) > 0
}

// ReconciliationOutcome groups every input record into exactly one bucket.
type ReconciliationOutcome struct {
	Matched      []MatchedPair `json:"matched"`
	InternalOnly []Record      `json:"internal_only"`
	ProviderOnly []Record      `json:"provider_only"`
}

// Summary provides high-level statistics of the reconciliation process.
type Summary struct {
	TotalTransactions      int     `json:"total_transactions"`
	MatchedTransactions    int     `json:"matched_transactions"`
	MismatchedTransactions int     `json:"mismatched_transactions"`
	UnmatchedTransactions  int     `json:"unmatched_transactions"`
	MatchPercentage        float64 `json:"match_percentage"`
	TotalDiscrepancyValue  string  `json:"total_discrepancy_value"`
}

// ReconciliationReport is the top-level structure for the final JSON output.
type ReconciliationReport struct {
	ID             string                `json:"id"`
	GeneratedAt    time.Time             `json:"generated_at"`
	InternalSource string                `json:"internal_source"`
	ProviderSource string                `json:"provider_source"`
	Summary        Summary               `json:"summary"`
	Outcome        ReconciliationOutcome `json:"outcome"`
}
