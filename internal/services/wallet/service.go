package wallet

import (
	"context"
	"errors"
	"fmt"

	errs "walletd/internal/errors"
	"walletd/internal/models"
	"walletd/internal/repositories"
)

type service struct {
	repo      repositories.WalletRepository
	txReader  repositories.TransactionRepository
	cache     CacheOperator
	receiver  ReceiverValidator
	validator *validator
	limiter   *limiter
	freezer   *freezer
	config    Config
	metrics   MetricsCollector
}

// NewService creates the wallet ledger service.
func NewService(
	repo repositories.WalletRepository,
	txReader repositories.TransactionRepository,
	cache CacheOperator,
	receiver ReceiverValidator,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("wallet repository is required")
	}
	if txReader == nil {
		panic("transaction repository is required")
	}

	if config.DailyLimit <= 0 {
		config.DailyLimit = DefaultDailyLimit
	}
	if config.FreezeDuration <= 0 {
		config.FreezeDuration = DefaultFreezeDuration
	}
	if config.SpendWindow <= 0 {
		config.SpendWindow = DefaultSpendWindow
	}
	config.Retry = config.Retry.withDefaults()

	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if receiver == nil {
		receiver = NoopReceiverValidator{}
	}

	freezer := newFreezer(repo, metrics)
	return &service{
		repo:      repo,
		txReader:  txReader,
		cache:     cache,
		receiver:  receiver,
		validator: newValidator(freezer, config),
		limiter:   newLimiter(repo, freezer, config),
		freezer:   freezer,
		config:    config,
		metrics:   metrics,
	}
}

// NoopReceiverValidator accepts every destination; used when no external
// validation endpoint is configured.
type NoopReceiverValidator struct{}

func (NoopReceiverValidator) ValidateReceiver(context.Context, uint) error { return nil }

func (s *service) CreateWallet(ctx context.Context, caller CallerContext, userID uint, balance float64) (*models.Wallet, error) {
	if !caller.Admin && caller.UserID != userID {
		return nil, errs.ErrUnauthorized
	}
	if balance < 0 {
		return nil, errs.ErrInvalidAmount
	}

	wallet := models.NewWallet(userID, balance)
	if err := s.repo.Create(wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	if s.cache != nil {
		s.cache.SetWallet(ctx, wallet)
	}
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, caller CallerContext, walletID uint) (*models.Wallet, error) {
	if s.cache != nil {
		if wallet, err := s.cache.GetWallet(ctx, walletID); err == nil {
			s.metrics.RecordCacheHit("wallet")
			if !caller.CanAccess(wallet) {
				return nil, errs.ErrUnauthorized
			}
			return wallet, nil
		}
		s.metrics.RecordCacheMiss("wallet")
	}

	wallet, err := s.loadWallet(walletID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(wallet) {
		return nil, errs.ErrUnauthorized
	}

	if s.cache != nil {
		s.cache.SetWallet(ctx, wallet)
	}
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, caller CallerContext, walletID uint) (float64, error) {
	wallet, err := s.GetWallet(ctx, caller, walletID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

func (s *service) ListWallets(ctx context.Context, caller CallerContext, userID uint) ([]*models.Wallet, error) {
	if !caller.Admin && caller.UserID != userID {
		return nil, errs.ErrUnauthorized
	}
	return s.repo.GetByUserID(userID)
}

func (s *service) ListAllWallets(ctx context.Context, caller CallerContext) ([]*models.Wallet, error) {
	if !caller.Admin {
		return nil, errs.ErrUnauthorized
	}
	return s.repo.GetAll()
}

func (s *service) ListEntries(ctx context.Context, caller CallerContext, walletID uint, limit, offset int) ([]EntryView, int64, error) {
	wallet, err := s.loadWallet(walletID)
	if err != nil {
		return nil, 0, err
	}
	if !caller.CanAccess(wallet) {
		return nil, 0, errs.ErrUnauthorized
	}

	txs, total, err := s.txReader.ListByWallet(ctx, walletID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}

	remaining := s.limiter.Remaining(wallet)
	views := make([]EntryView, 0, len(txs))
	for i := range txs {
		views = append(views, s.entryView(&txs[i], wallet.Balance, remaining))
	}
	return views, total, nil
}

func (s *service) ListEntriesFiltered(ctx context.Context, caller CallerContext, filter repositories.TransactionFilter, limit, offset int) ([]EntryView, int64, error) {
	if filter.WalletID == nil {
		if !caller.Admin {
			return nil, 0, errs.ErrUnauthorized
		}
	} else {
		wallet, err := s.loadWallet(*filter.WalletID)
		if err != nil {
			return nil, 0, err
		}
		if !caller.CanAccess(wallet) {
			return nil, 0, errs.ErrUnauthorized
		}
	}

	txs, total, err := s.txReader.ListFiltered(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}

	views := make([]EntryView, 0, len(txs))
	for i := range txs {
		wallet, err := s.loadWallet(txs[i].WalletID)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, s.entryView(&txs[i], wallet.Balance, s.limiter.Remaining(wallet)))
	}
	return views, total, nil
}

func (s *service) RemainingLimit(ctx context.Context, caller CallerContext, walletID uint) (float64, error) {
	wallet, err := s.loadWallet(walletID)
	if err != nil {
		return 0, err
	}
	if !caller.CanAccess(wallet) {
		return 0, errs.ErrUnauthorized
	}
	return s.limiter.Remaining(wallet), nil
}

// Unfreeze is the explicit administrative unfreeze path; it also resets the
// daily counter, matching the lazy unfreeze behavior.
func (s *service) Unfreeze(ctx context.Context, caller CallerContext, walletID uint) error {
	if !caller.Admin {
		return errs.ErrUnauthorized
	}
	wallet, err := s.loadWallet(walletID)
	if err != nil {
		return err
	}
	s.freezer.Unfreeze(wallet)
	s.invalidate(ctx, walletID)
	return nil
}

// loadWallet reads the authoritative row, mapping store errors onto the
// domain taxonomy.
func (s *service) loadWallet(walletID uint) (*models.Wallet, error) {
	wallet, err := s.repo.GetByID(walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, errs.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to load wallet %d: %w", walletID, err)
	}
	return wallet, nil
}

func (s *service) invalidate(ctx context.Context, walletIDs ...uint) {
	if s.cache == nil {
		return
	}
	for _, id := range walletIDs {
		s.cache.InvalidateWallet(ctx, id)
	}
}

func (s *service) entryView(tx *models.Transaction, balance, remaining float64) EntryView {
	return EntryView{
		TransactionID:       tx.TransactionID,
		WalletID:            tx.WalletID,
		Type:                tx.Type,
		Amount:              tx.Amount,
		Description:         tx.Description,
		CreatedAt:           tx.CreatedAt,
		Balance:             balance,
		RemainingDailyLimit: remaining,
	}
}
