package repositories

import (
	"errors"

	"walletd/internal/models"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrVersionConflict signals that a version-checked update lost a race
	// with a concurrent writer. Callers retry or give up; they never see a
	// partially applied write.
	ErrVersionConflict = errors.New("wallet version conflict")

	// ErrDuplicateTransaction signals a second insert with an already used
	// transaction id. The original row is authoritative.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
)

// WalletRepository defines the wallet-related database operations. The ledger
// append lives here too so a balance change and its entry can share one
// transactional unit via ExecuteInTransaction.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByID(id uint) (*models.Wallet, error)
	GetByUserID(userID uint) ([]*models.Wallet, error)
	GetAll() ([]*models.Wallet, error)

	// UpdateWithVersion persists every mutable wallet field, guarded by the
	// version the wallet was read at. Returns ErrVersionConflict when the
	// stored row has moved on; on success the in-memory version is bumped.
	UpdateWithVersion(wallet *models.Wallet) error

	// SetActive flips the administrative active flag without a version
	// guard; blacklisting must not lose to a concurrent balance write.
	SetActive(walletID uint, active bool) error

	CreateTransaction(tx *models.Transaction) error

	ExecuteInTransaction(fn func(WalletRepository) error) error
}
