package wallet

import (
	"time"

	errs "walletd/internal/errors"
	"walletd/internal/models"
)

// validator is the single gatekeeper every mutating operation passes through.
// It composes the freeze-expiry check, the spend-window rollover and the
// balance check.
type validator struct {
	freezer *freezer
	config  Config
}

func newValidator(freezer *freezer, config Config) *validator {
	return &validator{freezer: freezer, config: config}
}

// ValidateState rolls the spend window, then handles the frozen state: an
// expired freeze is cleared in place (the operation continues), a live one
// fails with the seconds remaining.
func (v *validator) ValidateState(w *models.Wallet) error {
	w.RollSpendWindow(v.config.SpendWindow)

	if w.Frozen && w.FrozenAt != nil {
		elapsed := time.Since(*w.FrozenAt)
		if elapsed >= v.config.FreezeDuration {
			v.freezer.Unfreeze(w)
			return nil
		}
		secondsLeft := int64((v.config.FreezeDuration - elapsed).Seconds())
		if secondsLeft < 1 {
			secondsLeft = 1
		}
		return &errs.WalletFrozenError{SecondsLeft: secondsLeft}
	}
	return nil
}

// ValidateBalance fails when the wallet cannot cover a debit of amount.
func (v *validator) ValidateBalance(w *models.Wallet, amount float64) error {
	if w.Balance < amount {
		return errs.ErrInsufficientBalance
	}
	return nil
}

// ValidateActive fails for a missing or administratively deactivated wallet.
func (v *validator) ValidateActive(w *models.Wallet) error {
	if w == nil {
		return errs.ErrWalletNotFound
	}
	if !w.Active {
		return errs.ErrWalletInactive
	}
	return nil
}
