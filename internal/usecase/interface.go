package usecase

import (
	"context"

	"provider-reconciliation/internal/domain"
)

// TransactionRepository defines the interface for fetching transaction data.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go TransactionRepository
type TransactionRepository interface {
	GetInternalTransactions(ctx context.Context, path string) ([]domain.Record, error)
	GetProviderTransactions(ctx context.Context, path string) ([]domain.Record, error)
}
