package wallet

import (
	"log"

	errs "walletd/internal/errors"
	"walletd/internal/models"
	"walletd/internal/repositories"
)

// limiter tracks rolling daily spend. The counter checkpoint is written
// through the root repository, not a caller's transaction: once a debit has
// been counted it stays counted even when the enclosing operation fails
// later for an unrelated reason.
type limiter struct {
	repo    repositories.WalletRepository
	freezer *freezer
	config  Config
}

func newLimiter(repo repositories.WalletRepository, freezer *freezer, config Config) *limiter {
	return &limiter{repo: repo, freezer: freezer, config: config}
}

// ApplySpend counts amount against the wallet's daily allowance and persists
// the counter immediately. When the ceiling is reached exactly, the returned
// hook schedules the freeze; the caller invokes it only after its own unit
// of work commits, so a rolled-back debit never leaves the wallet frozen.
func (l *limiter) ApplySpend(w *models.Wallet, amount float64) (postCommit func(), err error) {
	w.RollSpendWindow(l.config.SpendWindow)

	newTotal := w.DailySpent + amount
	if newTotal > l.config.DailyLimit {
		remaining := l.config.DailyLimit - w.DailySpent
		return nil, &errs.DailyLimitError{Remaining: remaining}
	}

	w.DailySpent = newTotal
	if err := l.repo.UpdateWithVersion(w); err != nil {
		return nil, err
	}
	log.Printf("wallet %d daily spent updated: %.2f / %.2f", w.ID, newTotal, l.config.DailyLimit)

	if newTotal >= l.config.DailyLimit {
		walletID := w.ID
		return func() { l.freezer.Freeze(walletID) }, nil
	}
	return nil, nil
}

// Remaining reports the allowance left in the current window without
// mutating the wallet.
func (l *limiter) Remaining(w *models.Wallet) float64 {
	scratch := *w
	scratch.RollSpendWindow(l.config.SpendWindow)
	return l.config.DailyLimit - scratch.DailySpent
}
