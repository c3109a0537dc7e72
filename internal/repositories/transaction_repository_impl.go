package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walletd/internal/models"

	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

func (r *transactionRepository) GetByTransactionID(id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.Where("transaction_id = ?", id).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByWallet(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, int64, error) {
	var txs []models.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("wallet_id = ?", walletID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}

func (r *transactionRepository) ListFiltered(ctx context.Context, filter TransactionFilter, limit, offset int) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{})

	if filter.WalletID != nil {
		query = query.Where("wallet_id = ?", *filter.WalletID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Start != nil {
		query = query.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("created_at <= ?", *filter.End)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txs []models.Transaction
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}

func (r *transactionRepository) SumDebits(ctx context.Context, walletID uint, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("wallet_id = ? AND type = ? AND created_at BETWEEN ? AND ?",
			walletID, models.TransactionTypeDebit, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum debits: %w", err)
	}
	return total, nil
}
