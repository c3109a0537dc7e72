// Package blacklist holds the administrative deactivation flows. A
// deactivated wallet keeps its balance and history but fails every
// operation at the validator's active check.
package blacklist

import (
	"context"
	"errors"
	"fmt"
	"log"

	errs "walletd/internal/errors"
	"walletd/internal/repositories"
	"walletd/internal/services/wallet"
)

type Service interface {
	BlacklistWallet(ctx context.Context, caller wallet.CallerContext, walletID uint) error
	BlacklistUser(ctx context.Context, caller wallet.CallerContext, userID uint) error
	BlacklistWalletAndOwner(ctx context.Context, caller wallet.CallerContext, walletID uint) error
	Reactivate(ctx context.Context, caller wallet.CallerContext, walletID uint) error
}

type service struct {
	repo  repositories.WalletRepository
	cache wallet.CacheOperator
}

func NewService(repo repositories.WalletRepository, cache wallet.CacheOperator) Service {
	if repo == nil {
		panic("wallet repository is required")
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) BlacklistWallet(ctx context.Context, caller wallet.CallerContext, walletID uint) error {
	if !caller.Admin {
		return errs.ErrUnauthorized
	}
	if err := s.setActive(ctx, walletID, false); err != nil {
		return err
	}
	log.Printf("wallet %d blacklisted and set inactive", walletID)
	return nil
}

func (s *service) BlacklistUser(ctx context.Context, caller wallet.CallerContext, userID uint) error {
	if !caller.Admin {
		return errs.ErrUnauthorized
	}

	wallets, err := s.repo.GetByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to load wallets for user %d: %w", userID, err)
	}
	if len(wallets) == 0 {
		log.Printf("no wallets found for user %d", userID)
		return nil
	}

	for _, w := range wallets {
		if err := s.setActive(ctx, w.ID, false); err != nil {
			return err
		}
	}
	log.Printf("all %d wallets of user %d blacklisted", len(wallets), userID)
	return nil
}

func (s *service) BlacklistWalletAndOwner(ctx context.Context, caller wallet.CallerContext, walletID uint) error {
	if !caller.Admin {
		return errs.ErrUnauthorized
	}

	w, err := s.repo.GetByID(walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return errs.ErrWalletNotFound
		}
		return err
	}

	if err := s.BlacklistWallet(ctx, caller, walletID); err != nil {
		return err
	}
	return s.BlacklistUser(ctx, caller, w.UserID)
}

func (s *service) Reactivate(ctx context.Context, caller wallet.CallerContext, walletID uint) error {
	if !caller.Admin {
		return errs.ErrUnauthorized
	}
	if err := s.setActive(ctx, walletID, true); err != nil {
		return err
	}
	log.Printf("wallet %d reactivated", walletID)
	return nil
}

func (s *service) setActive(ctx context.Context, walletID uint, active bool) error {
	if err := s.repo.SetActive(walletID, active); err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return errs.ErrWalletNotFound
		}
		return fmt.Errorf("failed to update wallet %d: %w", walletID, err)
	}
	if s.cache != nil {
		s.cache.InvalidateWallet(ctx, walletID)
	}
	return nil
}
