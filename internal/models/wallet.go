package models

import (
	"time"
)

type Wallet struct {
	ID     uint `gorm:"primarykey"`
	UserID uint `gorm:"index;not null"`

	// Balance must never go negative; every mutation goes through the
	// wallet service which checks this before the write.
	Balance float64 `gorm:"not null;default:0"`

	// Version backs the optimistic concurrency check. The repository only
	// applies an update when the stored version matches, and bumps it by one.
	Version uint64 `gorm:"not null;default:0"`

	// DailySpent accumulates DEBIT amounts since LastTransactionAt.
	DailySpent        float64   `gorm:"not null;default:0"`
	LastTransactionAt time.Time `gorm:"not null"`

	Frozen   bool `gorm:"not null;default:false"`
	FrozenAt *time.Time

	// Active is administrative (blacklist); independent of Frozen.
	Active bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWallet creates a wallet for a user with a non-negative opening balance
// and all spend counters zeroed.
func NewWallet(userID uint, balance float64) *Wallet {
	if balance < 0 {
		balance = 0
	}
	return &Wallet{
		UserID:            userID,
		Balance:           balance,
		Active:            true,
		LastTransactionAt: time.Now(),
	}
}

// RollSpendWindow resets the daily counter once the spend window has elapsed
// since the last transaction. Returns true when a reset happened.
func (w *Wallet) RollSpendWindow(window time.Duration) bool {
	now := time.Now()
	if w.LastTransactionAt.IsZero() {
		w.LastTransactionAt = now
		return false
	}
	if now.Sub(w.LastTransactionAt) >= window {
		w.DailySpent = 0
		w.LastTransactionAt = now
		return true
	}
	return false
}
