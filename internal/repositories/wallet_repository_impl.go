package repositories

import (
	"errors"
	"fmt"
	"time"

	"walletd/internal/models"

	"gorm.io/gorm"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	result := r.db.Create(wallet)
	if result.Error != nil {
		return fmt.Errorf("failed to create wallet: %w", result.Error)
	}
	return nil
}

func (r *walletRepository) GetByID(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserID(userID uint) ([]*models.Wallet, error) {
	var wallets []*models.Wallet
	if err := r.db.Where("user_id = ?", userID).Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to get wallets for user: %w", err)
	}
	return wallets, nil
}

func (r *walletRepository) GetAll() ([]*models.Wallet, error) {
	var wallets []*models.Wallet
	if err := r.db.Order("id").Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

// UpdateWithVersion is the compare-and-increment write at the heart of the
// optimistic concurrency scheme. The WHERE clause carries the version the
// caller read; zero rows affected means somebody else got there first.
func (r *walletRepository) UpdateWithVersion(wallet *models.Wallet) error {
	result := r.db.Model(&models.Wallet{}).
		Where("id = ? AND version = ?", wallet.ID, wallet.Version).
		Updates(map[string]interface{}{
			"balance":             wallet.Balance,
			"daily_spent":         wallet.DailySpent,
			"last_transaction_at": wallet.LastTransactionAt,
			"frozen":              wallet.Frozen,
			"frozen_at":           wallet.FrozenAt,
			"active":              wallet.Active,
			"version":             wallet.Version + 1,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	wallet.Version++
	return nil
}

func (r *walletRepository) SetActive(walletID uint, active bool) error {
	result := r.db.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{"active": active, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to set wallet active flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) CreateTransaction(tx *models.Transaction) error {
	result := r.db.Create(tx)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to create transaction: %w", result.Error)
	}
	return nil
}

func (r *walletRepository) ExecuteInTransaction(fn func(WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &walletRepository{db: tx}
		return fn(txRepo)
	})
}
