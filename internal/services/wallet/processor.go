package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	errs "walletd/internal/errors"
	"walletd/internal/models"
	"walletd/internal/repositories"

	"github.com/google/uuid"
)

// Process applies a single CREDIT or DEBIT to one wallet with exactly-once
// semantics per transaction id. Pre-checks run outside the unit of work;
// the balance change and the ledger append commit atomically; version
// conflicts retry the whole attempt from a fresh read.
func (s *service) Process(ctx context.Context, caller CallerContext, walletID uint, req ProcessRequest) (*EntryView, error) {
	started := time.Now()
	defer func() { s.metrics.RecordOperationDuration("process", time.Since(started)) }()

	req.Type = strings.ToUpper(req.Type)
	if req.Amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	if !models.ValidTransactionType(req.Type) {
		return nil, errs.ErrInvalidTransactionType
	}
	if req.TransactionID == "" {
		req.TransactionID = uuid.NewString()
	}

	// Idempotency: a replay returns the original entry against the wallet's
	// current balance, with no further mutation.
	if view, ok, err := s.replayEntry(ctx, caller, req.TransactionID); err != nil {
		return nil, err
	} else if ok {
		return view, nil
	}

	var result *EntryView
	err := withRetry(ctx, s.config.Retry, "process", s.metrics, func() error {
		view, err := s.processAttempt(ctx, caller, walletID, req)
		if err != nil {
			return err
		}
		result = view
		return nil
	})
	if err != nil {
		s.metrics.RecordError("process", errType(err))
		return nil, err
	}

	s.metrics.RecordTransaction(req.Type, req.Amount)
	return result, nil
}

func (s *service) processAttempt(ctx context.Context, caller CallerContext, walletID uint, req ProcessRequest) (*EntryView, error) {
	wallet, err := s.loadWallet(walletID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(wallet) {
		log.Printf("user %d attempted to operate on wallet %d which does not belong to them", caller.UserID, walletID)
		return nil, errs.ErrUnauthorized
	}
	if err := s.validator.ValidateActive(wallet); err != nil {
		return nil, err
	}

	// CREDIT stays allowed while frozen; only outgoing movement is blocked.
	if req.Type == models.TransactionTypeDebit {
		if err := s.validator.ValidateState(wallet); err != nil {
			return nil, err
		}
		if err := s.validator.ValidateBalance(wallet, req.Amount); err != nil {
			return nil, err
		}
	}

	var entry *models.Transaction
	var postCommit func()

	err = s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		if req.Type == models.TransactionTypeDebit {
			hook, err := s.limiter.ApplySpend(wallet, req.Amount)
			if err != nil {
				return err
			}
			postCommit = hook
			wallet.Balance -= req.Amount
		} else {
			wallet.Balance += req.Amount
		}

		if err := tx.UpdateWithVersion(wallet); err != nil {
			return err
		}

		entry = models.NewTransaction(wallet.ID, req.Type, req.Amount, req.Description)
		entry.TransactionID = req.TransactionID
		return tx.CreateTransaction(entry)
	})

	if err != nil {
		// Lost the idempotency-key race to a concurrent identical request:
		// the winner's row is the answer.
		if errors.Is(err, repositories.ErrDuplicateTransaction) {
			view, ok, replayErr := s.replayEntry(ctx, caller, req.TransactionID)
			if replayErr != nil {
				return nil, replayErr
			}
			if ok {
				return view, nil
			}
			return nil, fmt.Errorf("duplicate transaction %s not found on replay: %w", req.TransactionID, errs.ErrUnexpected)
		}
		return nil, err
	}

	s.invalidate(ctx, wallet.ID)
	if postCommit != nil {
		postCommit()
		s.invalidate(ctx, wallet.ID)
	}

	view := s.entryView(entry, wallet.Balance, s.limiter.Remaining(wallet))
	return &view, nil
}

// replayEntry resolves an idempotency key against the ledger. ok is false
// when no entry exists yet.
func (s *service) replayEntry(ctx context.Context, caller CallerContext, transactionID string) (*EntryView, bool, error) {
	existing, err := s.txReader.GetByTransactionID(transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("idempotency lookup failed: %w", err)
	}

	wallet, err := s.loadWallet(existing.WalletID)
	if err != nil {
		return nil, false, err
	}
	if !caller.CanAccess(wallet) {
		return nil, false, errs.ErrUnauthorized
	}

	log.Printf("transaction %s replayed from ledger, no mutation", transactionID)
	view := s.entryView(existing, wallet.Balance, s.limiter.Remaining(wallet))
	return &view, true, nil
}

func errType(err error) string {
	var domain *errs.DomainError
	if errors.As(err, &domain) {
		return domain.Code
	}
	var frozen *errs.WalletFrozenError
	if errors.As(err, &frozen) {
		return "WALLET_FROZEN"
	}
	var limit *errs.DailyLimitError
	if errors.As(err, &limit) {
		return "DAILY_LIMIT_EXCEEDED"
	}
	return "UNEXPECTED"
}
