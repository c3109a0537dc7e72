package wallet

import (
	"context"
	"time"

	"walletd/internal/models"
)

// CallerContext identifies the authenticated principal on whose behalf an
// operation runs. It is passed explicitly so the core never reaches into
// ambient request state.
type CallerContext struct {
	UserID uint
	Admin  bool
}

// CanAccess reports whether the caller may operate on the wallet.
func (c CallerContext) CanAccess(w *models.Wallet) bool {
	return c.Admin || c.UserID == w.UserID
}

// Config holds the wallet policy knobs.
type Config struct {
	// DailyLimit caps cumulative DEBIT volume per spend window.
	DailyLimit float64
	// FreezeDuration is how long a wallet stays frozen after hitting the limit.
	FreezeDuration time.Duration
	// SpendWindow is the rolling window after which DailySpent resets.
	SpendWindow time.Duration
	// Retry bounds the optimistic-conflict loop.
	Retry RetryPolicy
}

// ProcessRequest describes a single CREDIT or DEBIT against one wallet.
type ProcessRequest struct {
	// TransactionID is the idempotency key; generated when empty.
	TransactionID string
	Type          string
	Amount        float64
	Description   string
}

// TransferRequest describes one wallet-to-wallet movement.
type TransferRequest struct {
	FromWalletID uint
	ToWalletID   uint
	Amount       float64
}

// EntryView is what callers get back for a committed (or replayed) entry,
// enriched with the wallet's current balance and remaining daily allowance.
type EntryView struct {
	TransactionID       string    `json:"transaction_id"`
	WalletID            uint      `json:"wallet_id"`
	Type                string    `json:"type"`
	Amount              float64   `json:"amount"`
	Description         string    `json:"description"`
	CreatedAt           time.Time `json:"created_at"`
	Balance             float64   `json:"balance"`
	RemainingDailyLimit float64   `json:"remaining_daily_limit"`
}

// CacheOperator is the wallet-shaped slice of the cache service.
type CacheOperator interface {
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, walletID uint) error
}

// ReceiverValidator confirms a destination wallet may receive funds. The
// check is remote and best-effort in latency terms, but a failure aborts
// the transfer rather than being skipped.
type ReceiverValidator interface {
	ValidateReceiver(ctx context.Context, walletID uint) error
}
