package wallet

import (
	"log"
	"time"

	"walletd/internal/models"
	"walletd/internal/repositories"
)

// freezer applies and clears the frozen state. Every write here runs against
// the root repository, never a caller's transaction, so a freeze decided
// mid-operation survives even if that operation later rolls back.
type freezer struct {
	repo    repositories.WalletRepository
	metrics MetricsCollector
}

func newFreezer(repo repositories.WalletRepository, metrics MetricsCollector) *freezer {
	return &freezer{repo: repo, metrics: metrics}
}

// Freeze marks the wallet frozen as of now. It re-reads the row first so it
// never acts on a stale in-memory copy. A version conflict is retried exactly
// once; a second conflict abandons the freeze as a non-fatal failure.
func (f *freezer) Freeze(walletID uint) {
	if err := f.freezeOnce(walletID); err != nil {
		if err != repositories.ErrVersionConflict {
			log.Printf("failed to freeze wallet %d: %v", walletID, err)
			return
		}
		log.Printf("version conflict freezing wallet %d, retrying once", walletID)
		if err := f.freezeOnce(walletID); err != nil {
			log.Printf("could not freeze wallet %d after retry: %v", walletID, err)
			return
		}
	}
	f.metrics.RecordFreeze(walletID)
	log.Printf("🧊 wallet %d frozen after reaching daily limit", walletID)
}

func (f *freezer) freezeOnce(walletID uint) error {
	fresh, err := f.repo.GetByID(walletID)
	if err != nil {
		return err
	}
	now := time.Now()
	fresh.Frozen = true
	fresh.FrozenAt = &now
	return f.repo.UpdateWithVersion(fresh)
}

// Unfreeze clears the frozen state and resets the daily counter. Conflicts
// are swallowed: the next validation pass retries the unfreeze naturally.
// On success the caller's copy is refreshed so an enclosing operation can
// continue on the current version.
func (f *freezer) Unfreeze(w *models.Wallet) {
	fresh, err := f.repo.GetByID(w.ID)
	if err != nil {
		log.Printf("failed to load wallet %d for unfreeze: %v", w.ID, err)
		return
	}

	fresh.Frozen = false
	fresh.FrozenAt = nil
	fresh.DailySpent = 0

	if err := f.repo.UpdateWithVersion(fresh); err != nil {
		log.Printf("could not unfreeze wallet %d: %v", w.ID, err)
		return
	}

	*w = *fresh
	log.Printf("wallet %d unfrozen", w.ID)
}
