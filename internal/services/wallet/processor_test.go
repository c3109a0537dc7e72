package wallet

import (
	"context"
	"sync"
	"testing"
	"time"

	errs "walletd/internal/errors"
	"walletd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_Credit(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{UserID: 1, Balance: 100, Active: true})
	svc := newTestService(store, testConfig())

	view, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		TransactionID: "tx-credit-1",
		Type:          "credit",
		Amount:        50,
		Description:   "top up",
	})
	require.NoError(t, err)

	assert.Equal(t, "tx-credit-1", view.TransactionID)
	assert.Equal(t, models.TransactionTypeCredit, view.Type)
	assert.Equal(t, 150.0, view.Balance)
	assert.Equal(t, 150.0, store.wallet(id).Balance)
	assert.Equal(t, 1, store.entryCount())
}

func TestProcess_Debit(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{UserID: 1, Balance: 100, Active: true})
	svc := newTestService(store, testConfig())

	view, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		Type:   models.TransactionTypeDebit,
		Amount: 30,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, view.TransactionID)
	assert.Equal(t, 70.0, view.Balance)
	assert.Equal(t, 470.0, view.RemainingDailyLimit)
	assert.Equal(t, 30.0, store.wallet(id).DailySpent)
}

func TestProcess_InvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		req     ProcessRequest
		wantErr error
	}{
		{"zero amount", ProcessRequest{Type: "DEBIT", Amount: 0}, errs.ErrInvalidAmount},
		{"negative amount", ProcessRequest{Type: "CREDIT", Amount: -5}, errs.ErrInvalidAmount},
		{"unknown type", ProcessRequest{Type: "WITHDRAW", Amount: 10}, errs.ErrInvalidTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			id := store.addWallet(models.Wallet{UserID: 1, Balance: 100, Active: true})
			svc := newTestService(store, testConfig())

			_, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 100.0, store.wallet(id).Balance)
			assert.Equal(t, 0, store.entryCount())
		})
	}
}

func TestProcess_InsufficientBalance(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{UserID: 1, Balance: 20, Active: true})
	svc := newTestService(store, testConfig())

	_, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		Type:   models.TransactionTypeDebit,
		Amount: 50,
	})
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	assert.Equal(t, 20.0, store.wallet(id).Balance)
}

func TestProcess_UnauthorizedCaller(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{UserID: 1, Balance: 100, Active: true})
	svc := newTestService(store, testConfig())

	_, err := svc.Process(context.Background(), CallerContext{UserID: 2}, id, ProcessRequest{
		Type:   models.TransactionTypeCredit,
		Amount: 10,
	})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	// Admins may operate on any wallet.
	_, err = svc.Process(context.Background(), CallerContext{UserID: 2, Admin: true}, id, ProcessRequest{
		Type:   models.TransactionTypeCredit,
		Amount: 10,
	})
	assert.NoError(t, err)
}

func TestProcess_InactiveWallet(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{UserID: 1, Balance: 100, Active: false})
	svc := newTestService(store, testConfig())

	_, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		Type:   models.TransactionTypeCredit,
		Amount: 10,
	})
	assert.ErrorIs(t, err, errs.ErrWalletInactive)
}

func TestProcess_IdempotentReplay(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{UserID: 1, Balance: 100, Active: true})
	svc := newTestService(store, testConfig())
	caller := CallerContext{UserID: 1}

	req := ProcessRequest{TransactionID: "tx-once", Type: "DEBIT", Amount: 40}

	first, err := svc.Process(context.Background(), caller, id, req)
	require.NoError(t, err)
	assert.Equal(t, 60.0, first.Balance)

	second, err := svc.Process(context.Background(), caller, id, req)
	require.NoError(t, err)
	assert.Equal(t, first.TransactionID, second.TransactionID)
	assert.Equal(t, first.Amount, second.Amount)

	// The replay mutated nothing.
	assert.Equal(t, 60.0, store.wallet(id).Balance)
	assert.Equal(t, 1, store.entryCount())
}

func TestProcess_DuplicateKeyRace(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{UserID: 1, Balance: 100, Active: true})
	svc := newTestService(store, testConfig())

	// A concurrent identical request wins the insert between our idempotency
	// lookup and our own insert.
	store.beforeCreateEntry = func(s *fakeStore) {
		winner := models.NewTransaction(id, models.TransactionTypeCredit, 25, "racing credit")
		winner.TransactionID = "tx-race"
		require.NoError(t, s.CreateTransaction(winner))
	}

	view, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		TransactionID: "tx-race",
		Type:          "CREDIT",
		Amount:        25,
	})
	require.NoError(t, err)

	assert.Equal(t, "tx-race", view.TransactionID)
	assert.Equal(t, "racing credit", view.Description)
	assert.Equal(t, 1, store.entryCount())
}

func TestProcess_RetriesConflictThenSucceeds(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{UserID: 1, Balance: 100, Active: true})
	store.forceConflicts = 1
	svc := newTestService(store, testConfig())

	view, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		Type:   models.TransactionTypeDebit,
		Amount: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, view.Balance)
}

func TestProcess_RetryExhaustionReturnsWalletBusy(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{UserID: 1, Balance: 100, Active: true})
	store.forceConflicts = 100
	svc := newTestService(store, testConfig())

	_, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		Type:   models.TransactionTypeDebit,
		Amount: 10,
	})
	assert.ErrorIs(t, err, errs.ErrWalletBusy)
}

func TestProcess_DailyLimitExceeded(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{
		UserID:            1,
		Balance:           10000,
		Active:            true,
		DailySpent:        450,
		LastTransactionAt: time.Now(),
	})
	svc := newTestService(store, testConfig())

	_, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		Type:   models.TransactionTypeDebit,
		Amount: 100,
	})

	var limitErr *errs.DailyLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 50.0, limitErr.Remaining)

	// Rejected before any mutation.
	w := store.wallet(id)
	assert.Equal(t, 10000.0, w.Balance)
	assert.Equal(t, 450.0, w.DailySpent)
	assert.False(t, w.Frozen)
	assert.Equal(t, 0, store.entryCount())
}

func TestProcess_FreezeAtExactLimit(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{
		UserID:            1,
		Balance:           1000,
		Active:            true,
		DailySpent:        450,
		LastTransactionAt: time.Now(),
	})
	svc := newTestService(store, testConfig())

	view, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		Type:   models.TransactionTypeDebit,
		Amount: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 950.0, view.Balance)

	// The debit that lands exactly on the limit commits, then freezes.
	w := store.wallet(id)
	assert.True(t, w.Frozen)
	require.NotNil(t, w.FrozenAt)
	assert.Equal(t, 500.0, w.DailySpent)

	// An immediate follow-up debit bounces off the fresh freeze.
	_, err = svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		Type:   models.TransactionTypeDebit,
		Amount: 1,
	})
	var frozenErr *errs.WalletFrozenError
	assert.ErrorAs(t, err, &frozenErr)
}

func TestProcess_DebitBlockedWhileFrozen(t *testing.T) {
	store := newFakeStore()
	frozenAt := time.Now().Add(-30 * time.Second)
	id := store.addWallet(models.Wallet{
		UserID:            1,
		Balance:           1000,
		Active:            true,
		Frozen:            true,
		FrozenAt:          &frozenAt,
		LastTransactionAt: time.Now(),
	})
	svc := newTestService(store, testConfig())

	_, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		Type:   models.TransactionTypeDebit,
		Amount: 10,
	})

	var frozenErr *errs.WalletFrozenError
	require.ErrorAs(t, err, &frozenErr)
	assert.Greater(t, frozenErr.SecondsLeft, int64(0))
	assert.LessOrEqual(t, frozenErr.SecondsLeft, int64(90))
}

func TestProcess_CreditAllowedWhileFrozen(t *testing.T) {
	store := newFakeStore()
	frozenAt := time.Now().Add(-30 * time.Second)
	id := store.addWallet(models.Wallet{
		UserID:            1,
		Balance:           1000,
		Active:            true,
		Frozen:            true,
		FrozenAt:          &frozenAt,
		LastTransactionAt: time.Now(),
	})
	svc := newTestService(store, testConfig())

	view, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		Type:   models.TransactionTypeCredit,
		Amount: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, view.Balance)
	assert.True(t, store.wallet(id).Frozen)
}

func TestProcess_ExpiredFreezeClearsAndDebitSucceeds(t *testing.T) {
	store := newFakeStore()
	frozenAt := time.Now().Add(-3 * time.Minute)
	id := store.addWallet(models.Wallet{
		UserID:            1,
		Balance:           1000,
		Active:            true,
		Frozen:            true,
		FrozenAt:          &frozenAt,
		DailySpent:        500,
		LastTransactionAt: time.Now(),
	})
	svc := newTestService(store, testConfig())

	view, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
		Type:   models.TransactionTypeDebit,
		Amount: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 900.0, view.Balance)

	w := store.wallet(id)
	assert.False(t, w.Frozen)
	assert.Nil(t, w.FrozenAt)
	assert.Equal(t, 100.0, w.DailySpent)
}

func TestProcess_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	store := newFakeStore()
	id := store.addWallet(models.Wallet{UserID: 1, Balance: 100, Active: true})

	cfg := testConfig()
	cfg.DailyLimit = 100000
	cfg.Retry = RetryPolicy{MaxAttempts: 50, BaseBackoff: time.Millisecond}
	svc := newTestService(store, cfg)

	const workers = 20
	const amount = 10.0

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Process(context.Background(), CallerContext{UserID: 1}, id, ProcessRequest{
				Type:   models.TransactionTypeDebit,
				Amount: amount,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	w := store.wallet(id)
	assert.GreaterOrEqual(t, w.Balance, 0.0)
	assert.Equal(t, 100.0-amount*float64(succeeded), w.Balance)
	assert.Equal(t, succeeded, store.entryCount())
}
