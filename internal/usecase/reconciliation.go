package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"provider-reconciliation/internal/domain"
	"provider-reconciliation/internal/reconcile"
)

// ReconciliationUseCase orchestrates the reconciliation process.
type ReconciliationUseCase struct {
	repo TransactionRepository
	now  func() time.Time
}

// Option customises a ReconciliationUseCase.
type Option func(*ReconciliationUseCase)

// WithClock overrides the clock used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(uc *ReconciliationUseCase) {
		uc.now = now
	}
}

// NewReconciliationUseCase creates a new instance of the usecase.
func NewReconciliationUseCase(repo TransactionRepository, opts ...Option) *ReconciliationUseCase {
	uc := &ReconciliationUseCase{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Reconcile loads both inputs, rejects an empty side and reconciles them.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, internalPath, providerPath string) (*domain.ReconciliationReport, error) {
	// Step 1: Data Ingestion
	internalTxs, err := uc.repo.GetInternalTransactions(ctx, internalPath)
	if err != nil {
		return nil, fmt.Errorf("could not get internal transactions: %w", err)
	}

	providerTxs, err := uc.repo.GetProviderTransactions(ctx, providerPath)
	if err != nil {
		return nil, fmt.Errorf("could not get provider transactions: %w", err)
	}

	// Step 2: Both sides must contribute at least one transaction
	if len(internalTxs) == 0 {
		return nil, &domain.EmptyInputError{Side: domain.SideInternal}
	}
	if len(providerTxs) == 0 {
		return nil, &domain.EmptyInputError{Side: domain.SideProvider}
	}

	// Step 3: Matching
	outcome := reconcile.Reconcile(internalTxs, providerTxs)

	report := &domain.ReconciliationReport{
		ID:             "recon_" + uuid.NewString(),
		GeneratedAt:    uc.now().UTC(),
		InternalSource: internalPath,
		ProviderSource: providerPath,
		Summary:        reconcile.Summarize(outcome),
		Outcome:        outcome,
	}

	logrus.WithFields(logrus.Fields{
		"reconciliation_id": report.ID,
		"internal":          len(internalTxs),
		"provider":          len(providerTxs),
		"matched":           report.Summary.MatchedTransactions,
		"mismatched":        report.Summary.MismatchedTransactions,
		"unmatched":         report.Summary.UnmatchedTransactions,
	}).Info("reconciliation completed")

	return report, nil
}
