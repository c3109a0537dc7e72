package repositories

import (
	"context"
	"time"

	"walletd/internal/models"
)

// TransactionFilter narrows a ledger query. Nil/zero fields are ignored.
type TransactionFilter struct {
	WalletID *uint
	Type     string
	Start    *time.Time
	End      *time.Time
}

// TransactionRepository is the read side of the ledger. Appends go through
// WalletRepository.CreateTransaction so they share the wallet's unit of work.
type TransactionRepository interface {
	GetByTransactionID(id string) (*models.Transaction, error)
	ListByWallet(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, int64, error)
	ListFiltered(ctx context.Context, filter TransactionFilter, limit, offset int) ([]models.Transaction, int64, error)
	SumDebits(ctx context.Context, walletID uint, start, end time.Time) (float64, error)
}
