package wallet

import (
	"context"
	"fmt"
	"log"
	"time"

	errs "walletd/internal/errors"
	"walletd/internal/models"
	"walletd/internal/repositories"

	"github.com/google/uuid"
)

// Transfer debits the source and credits the destination as one logical
// operation: one unit of work, two correlated ledger entries. Argument
// checks run before any account state is read.
func (s *service) Transfer(ctx context.Context, caller CallerContext, req TransferRequest) (*EntryView, error) {
	started := time.Now()
	defer func() { s.metrics.RecordOperationDuration("transfer", time.Since(started)) }()

	if req.FromWalletID == req.ToWalletID {
		return nil, errs.ErrSameWallet
	}
	if req.Amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	var result *EntryView
	err := withRetry(ctx, s.config.Retry, "transfer", s.metrics, func() error {
		view, err := s.transferAttempt(ctx, caller, req)
		if err != nil {
			return err
		}
		result = view
		return nil
	})
	if err != nil {
		s.metrics.RecordError("transfer", errType(err))
		return nil, err
	}

	s.metrics.RecordTransaction("TRANSFER", req.Amount)
	return result, nil
}

func (s *service) transferAttempt(ctx context.Context, caller CallerContext, req TransferRequest) (*EntryView, error) {
	from, err := s.loadWallet(req.FromWalletID)
	if err != nil {
		return nil, err
	}
	to, err := s.loadWallet(req.ToWalletID)
	if err != nil {
		return nil, err
	}

	if !caller.CanAccess(from) {
		log.Printf("user %d attempted to transfer from wallet %d which does not belong to them", caller.UserID, req.FromWalletID)
		return nil, errs.ErrUnauthorized
	}

	// Full validation on the source; the destination only needs to exist and
	// be active. A frozen wallet may still receive funds.
	if err := s.validator.ValidateActive(from); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateState(from); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateBalance(from, req.Amount); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateActive(to); err != nil {
		return nil, err
	}

	if err := s.receiver.ValidateReceiver(ctx, to.ID); err != nil {
		return nil, fmt.Errorf("receiver validation failed: %w", err)
	}

	correlation := uuid.NewString()
	var debitEntry *models.Transaction
	var postCommit func()

	err = s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		hook, err := s.limiter.ApplySpend(from, req.Amount)
		if err != nil {
			return err
		}
		postCommit = hook

		from.Balance -= req.Amount
		to.Balance += req.Amount

		// Fixed acquisition order: ascending wallet id, so two opposite
		// transfers over the same pair cannot deadlock each other.
		first, second := from, to
		if second.ID < first.ID {
			first, second = second, first
		}
		if err := tx.UpdateWithVersion(first); err != nil {
			return err
		}
		if err := tx.UpdateWithVersion(second); err != nil {
			return err
		}

		debitEntry = models.NewTransaction(from.ID, models.TransactionTypeDebit, req.Amount,
			fmt.Sprintf("Transfer to wallet %d", to.ID))
		debitEntry.TransactionID = correlation + "-D"
		if err := tx.CreateTransaction(debitEntry); err != nil {
			return err
		}

		creditEntry := models.NewTransaction(to.ID, models.TransactionTypeCredit, req.Amount,
			fmt.Sprintf("Transfer from wallet %d", from.ID))
		creditEntry.TransactionID = correlation + "-C"
		return tx.CreateTransaction(creditEntry)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, from.ID, to.ID)
	if postCommit != nil {
		postCommit()
		s.invalidate(ctx, from.ID)
	}

	log.Printf("transfer %s completed: %.2f from wallet %d to wallet %d", correlation, req.Amount, from.ID, to.ID)
	view := s.entryView(debitEntry, from.Balance, s.limiter.Remaining(from))
	return &view, nil
}
