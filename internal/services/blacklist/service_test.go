package blacklist

import (
	"context"
	"testing"

	errs "walletd/internal/errors"
	"walletd/internal/models"
	"walletd/internal/repositories"
	"walletd/internal/services/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWalletRepo struct {
	wallets map[uint]*models.Wallet
}

func newFakeWalletRepo(wallets ...*models.Wallet) *fakeWalletRepo {
	r := &fakeWalletRepo{wallets: make(map[uint]*models.Wallet)}
	for i, w := range wallets {
		w.ID = uint(i + 1)
		r.wallets[w.ID] = w
	}
	return r
}

func (r *fakeWalletRepo) Create(w *models.Wallet) error { return nil }

func (r *fakeWalletRepo) GetByID(id uint) (*models.Wallet, error) {
	w, ok := r.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return w, nil
}

func (r *fakeWalletRepo) GetByUserID(userID uint) ([]*models.Wallet, error) {
	var out []*models.Wallet
	for _, w := range r.wallets {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWalletRepo) GetAll() ([]*models.Wallet, error) { return nil, nil }

func (r *fakeWalletRepo) UpdateWithVersion(w *models.Wallet) error { return nil }

func (r *fakeWalletRepo) SetActive(walletID uint, active bool) error {
	w, ok := r.wallets[walletID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	w.Active = active
	return nil
}

func (r *fakeWalletRepo) CreateTransaction(tx *models.Transaction) error { return nil }

func (r *fakeWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	return fn(r)
}

var admin = wallet.CallerContext{UserID: 99, Admin: true}

func TestBlacklistWallet(t *testing.T) {
	repo := newFakeWalletRepo(&models.Wallet{UserID: 1, Active: true})
	svc := NewService(repo, nil)

	require.NoError(t, svc.BlacklistWallet(context.Background(), admin, 1))
	assert.False(t, repo.wallets[1].Active)

	err := svc.BlacklistWallet(context.Background(), wallet.CallerContext{UserID: 1}, 1)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	err = svc.BlacklistWallet(context.Background(), admin, 999)
	assert.ErrorIs(t, err, errs.ErrWalletNotFound)
}

func TestBlacklistUser(t *testing.T) {
	repo := newFakeWalletRepo(
		&models.Wallet{UserID: 1, Active: true},
		&models.Wallet{UserID: 1, Active: true},
		&models.Wallet{UserID: 2, Active: true},
	)
	svc := NewService(repo, nil)

	require.NoError(t, svc.BlacklistUser(context.Background(), admin, 1))
	assert.False(t, repo.wallets[1].Active)
	assert.False(t, repo.wallets[2].Active)
	assert.True(t, repo.wallets[3].Active)

	// No wallets is not an error.
	assert.NoError(t, svc.BlacklistUser(context.Background(), admin, 5))
}

func TestBlacklistWalletAndOwner(t *testing.T) {
	repo := newFakeWalletRepo(
		&models.Wallet{UserID: 1, Active: true},
		&models.Wallet{UserID: 1, Active: true},
	)
	svc := NewService(repo, nil)

	require.NoError(t, svc.BlacklistWalletAndOwner(context.Background(), admin, 1))
	assert.False(t, repo.wallets[1].Active)
	assert.False(t, repo.wallets[2].Active)
}

func TestReactivate(t *testing.T) {
	repo := newFakeWalletRepo(&models.Wallet{UserID: 1, Active: false})
	svc := NewService(repo, nil)

	require.NoError(t, svc.Reactivate(context.Background(), admin, 1))
	assert.True(t, repo.wallets[1].Active)

	err := svc.Reactivate(context.Background(), wallet.CallerContext{UserID: 1}, 1)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
