package wallet

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"walletd/internal/models"
	"walletd/internal/repositories"
)

// fakeStore is an in-memory stand-in for both repository interfaces. It
// enforces the same version-check and unique-key semantics as the real
// Postgres-backed implementation, under a single mutex, so the concurrency
// tests exercise real conflict paths.
type fakeStore struct {
	mu      sync.Mutex
	wallets map[uint]models.Wallet
	entries map[string]models.Transaction

	nextWalletID uint
	nextEntryID  uint

	// forceConflicts makes the next N version-checked updates fail, to
	// drive the retry paths deterministically.
	forceConflicts int

	// beforeCreateEntry runs inside CreateTransaction before the duplicate
	// check, letting a test inject a racing insert.
	beforeCreateEntry func(s *fakeStore)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets: make(map[uint]models.Wallet),
		entries: make(map[string]models.Transaction),
	}
}

func (s *fakeStore) addWallet(w models.Wallet) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextWalletID++
	w.ID = s.nextWalletID
	if w.LastTransactionAt.IsZero() {
		w.LastTransactionAt = time.Now()
	}
	s.wallets[w.ID] = w
	return w.ID
}

func (s *fakeStore) wallet(id uint) models.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[id]
}

func (s *fakeStore) entryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// WalletRepository

func (s *fakeStore) Create(w *models.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextWalletID++
	w.ID = s.nextWalletID
	s.wallets[w.ID] = *w
	return nil
}

func (s *fakeStore) GetByID(id uint) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	copy := w
	return &copy, nil
}

func (s *fakeStore) GetByUserID(userID uint) ([]*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Wallet
	for _, w := range s.wallets {
		if w.UserID == userID {
			copy := w
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) GetAll() ([]*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Wallet
	for _, w := range s.wallets {
		copy := w
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) UpdateWithVersion(w *models.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forceConflicts > 0 {
		s.forceConflicts--
		return repositories.ErrVersionConflict
	}
	stored, ok := s.wallets[w.ID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	if stored.Version != w.Version {
		return repositories.ErrVersionConflict
	}
	updated := *w
	updated.Version++
	updated.UpdatedAt = time.Now()
	s.wallets[w.ID] = updated
	w.Version = updated.Version
	return nil
}

func (s *fakeStore) SetActive(walletID uint, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	w.Active = active
	s.wallets[walletID] = w
	return nil
}

func (s *fakeStore) CreateTransaction(tx *models.Transaction) error {
	if s.beforeCreateEntry != nil {
		hook := s.beforeCreateEntry
		s.beforeCreateEntry = nil
		hook(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[tx.TransactionID]; exists {
		return repositories.ErrDuplicateTransaction
	}
	s.nextEntryID++
	tx.ID = s.nextEntryID
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	s.entries[tx.TransactionID] = *tx
	return nil
}

func (s *fakeStore) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	return fn(s)
}

// TransactionRepository

func (s *fakeStore) GetByTransactionID(id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.entries[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	copy := tx
	return &copy, nil
}

func (s *fakeStore) ListByWallet(_ context.Context, walletID uint, limit, offset int) ([]models.Transaction, int64, error) {
	id := walletID
	return s.ListFiltered(context.Background(), repositories.TransactionFilter{WalletID: &id}, limit, offset)
}

func (s *fakeStore) ListFiltered(_ context.Context, filter repositories.TransactionFilter, limit, offset int) ([]models.Transaction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.Transaction
	for _, tx := range s.entries {
		if filter.WalletID != nil && tx.WalletID != *filter.WalletID {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Start != nil && tx.CreatedAt.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && tx.CreatedAt.After(*filter.End) {
			continue
		}
		all = append(all, tx)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *fakeStore) SumDebits(_ context.Context, walletID uint, start, end time.Time) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, tx := range s.entries {
		if tx.WalletID != walletID || tx.Type != models.TransactionTypeDebit {
			continue
		}
		if tx.CreatedAt.Before(start) || tx.CreatedAt.After(end) {
			continue
		}
		sum += tx.Amount
	}
	return sum, nil
}

// fakeCache records wallet cache traffic.
type fakeCache struct {
	mu      sync.Mutex
	wallets map[uint]*models.Wallet
	hits    int
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{wallets: make(map[uint]*models.Wallet)}
}

func (c *fakeCache) GetWallet(_ context.Context, walletID uint) (*models.Wallet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.wallets[walletID]
	if !ok {
		return nil, errors.New("cache miss")
	}
	c.hits++
	copy := *w
	return &copy, nil
}

func (c *fakeCache) SetWallet(_ context.Context, wallet *models.Wallet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy := *wallet
	c.wallets[wallet.ID] = &copy
	c.sets++
	return nil
}

func (c *fakeCache) InvalidateWallet(_ context.Context, walletID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.wallets, walletID)
	c.deletes++
	return nil
}

// failingReceiver rejects every destination.
type failingReceiver struct{}

func (failingReceiver) ValidateReceiver(context.Context, uint) error {
	return errors.New("receiver rejected")
}

func testConfig() Config {
	return Config{
		DailyLimit:     500,
		FreezeDuration: 2 * time.Minute,
		SpendWindow:    2 * time.Minute,
		Retry:          RetryPolicy{MaxAttempts: 3, BaseBackoff: time.Millisecond},
	}
}

func newTestService(store *fakeStore, cfg Config) Service {
	return NewService(store, store, nil, nil, cfg, nil)
}
