package models

import (
	"time"
)

// Transaction types
const (
	TransactionTypeCredit = "CREDIT"
	TransactionTypeDebit  = "DEBIT"
)

// Transaction is one committed movement of funds. Rows are append-only:
// type and amount are never updated once recorded.
type Transaction struct {
	ID       uint `gorm:"primarykey"`
	WalletID uint `gorm:"index:idx_wallet_date;not null"`

	Type   string  `gorm:"not null"`
	Amount float64 `gorm:"not null"`

	Description string `gorm:"size:255"`

	// TransactionID is the idempotency key, caller-supplied or generated.
	// The unique index is what makes a retried request collapse onto the
	// original row instead of creating a second one.
	TransactionID string `gorm:"uniqueIndex;size:255;not null"`

	CreatedAt time.Time `gorm:"index:idx_wallet_date"`
}

// NewTransaction builds a ledger entry; the caller is responsible for having
// validated the amount already.
func NewTransaction(walletID uint, txType string, amount float64, description string) *Transaction {
	return &Transaction{
		WalletID:    walletID,
		Type:        txType,
		Amount:      amount,
		Description: description,
	}
}

// ValidTransactionType reports whether t is one of the recognized kinds.
func ValidTransactionType(t string) bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}
