package wallet

import (
	"context"

	"walletd/internal/models"
	"walletd/internal/repositories"
)

// Service defines the wallet ledger engine exposed to the HTTP layer.
// Every operation takes the caller explicitly; ownership checks live here,
// not in middleware.
type Service interface {
	// Wallet management
	CreateWallet(ctx context.Context, caller CallerContext, userID uint, balance float64) (*models.Wallet, error)
	GetWallet(ctx context.Context, caller CallerContext, walletID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, caller CallerContext, walletID uint) (float64, error)
	ListWallets(ctx context.Context, caller CallerContext, userID uint) ([]*models.Wallet, error)
	ListAllWallets(ctx context.Context, caller CallerContext) ([]*models.Wallet, error)

	// Ledger operations
	Process(ctx context.Context, caller CallerContext, walletID uint, req ProcessRequest) (*EntryView, error)
	Transfer(ctx context.Context, caller CallerContext, req TransferRequest) (*EntryView, error)
	ListEntries(ctx context.Context, caller CallerContext, walletID uint, limit, offset int) ([]EntryView, int64, error)
	ListEntriesFiltered(ctx context.Context, caller CallerContext, filter repositories.TransactionFilter, limit, offset int) ([]EntryView, int64, error)
	RemainingLimit(ctx context.Context, caller CallerContext, walletID uint) (float64, error)

	// Admin
	Unfreeze(ctx context.Context, caller CallerContext, walletID uint) error
}
