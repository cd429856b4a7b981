// Package wallet owns wallet balances and the transaction log. Every
// balance-affecting operation runs inside one isolated unit of work
// against the store; the unique reference constraint makes credits
// idempotent for the settlement path.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payvault/internal/gateway/paystack"
	"payvault/internal/models"
	"payvault/internal/repositories"

	"github.com/sirupsen/logrus"
)

type Service interface {
	CreateWallet(ctx context.Context, currency string) (*models.Wallet, error)
	GetWallet(ctx context.Context, id string) (*models.Wallet, error)
	ListWallets(ctx context.Context) ([]models.Wallet, error)

	// FundWallet initializes a gateway payment tagged FUND and returns the
	// authorization handle. The balance is credited at settlement, not here.
	FundWallet(ctx context.Context, walletID, email string, amount float64) (*FundIntent, error)
	// Credit atomically increments the balance and appends a ledger entry.
	Credit(ctx context.Context, req CreditRequest) error
	// Transfer atomically moves amount between two wallets, appending a
	// matched TRANSFER_OUT/TRANSFER_IN pair sharing one timestamp.
	Transfer(ctx context.Context, fromID, toID string, amount float64) error
}

type service struct {
	repo    repositories.WalletRepository
	gateway paystack.Gateway
	cache   Cache
	log     *logrus.Logger
}

func NewService(repo repositories.WalletRepository, gateway paystack.Gateway, cache Cache, log *logrus.Logger) Service {
	if repo == nil {
		panic("wallet repository is required")
	}
	if gateway == nil {
		panic("payment gateway is required")
	}
	// Cache and logger are optional.
	if cache == nil {
		cache = noopCache{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &service{repo: repo, gateway: gateway, cache: cache, log: log}
}

func (s *service) CreateWallet(ctx context.Context, currency string) (*models.Wallet, error) {
	if currency == "" {
		currency = "USD"
	}
	wallet := &models.Wallet{Currency: currency}
	if err := s.repo.Create(wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, id string) (*models.Wallet, error) {
	return s.repo.GetWithTransactions(id)
}

func (s *service) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	return s.repo.List()
}

func (s *service) FundWallet(ctx context.Context, walletID, email string, amount float64) (*FundIntent, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.resolveWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}

	auth, err := s.gateway.InitializeTransaction(ctx, email, paystack.MinorUnits(amount), paystack.Metadata{
		WalletID: wallet.ID,
		Type:     paystack.ChargeTypeFund,
	})
	if err != nil {
		return nil, err
	}

	return &FundIntent{
		AuthorizationURL: auth.AuthorizationURL,
		Reference:        auth.Reference,
		Amount:           amount,
	}, nil
}

func (s *service) Credit(ctx context.Context, req CreditRequest) error {
	if req.Amount <= 0 {
		return ErrInvalidAmount
	}

	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet, err := tx.GetByIDForUpdate(req.WalletID)
		if err != nil {
			return err
		}

		txn := &models.Transaction{
			WalletID: wallet.ID,
			Type:     req.Type,
			Amount:   req.Amount,
			Email:    req.Email,
			Metadata: req.Metadata,
		}
		if req.Reference != "" {
			ref := req.Reference
			txn.Reference = &ref
		}
		if !req.OccurredAt.IsZero() {
			txn.CreatedAt = req.OccurredAt
		}

		// Insert before the balance write so a duplicate reference aborts
		// the unit of work with no mutation.
		if err := tx.CreateTransaction(txn); err != nil {
			return err
		}
		return tx.AdjustBalance(wallet.ID, req.Amount)
	})

	if errors.Is(err, repositories.ErrDuplicateReference) {
		s.log.WithField("reference", req.Reference).Info("credit already settled, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx, req.WalletID)
	return nil
}

func (s *service) Transfer(ctx context.Context, fromID, toID string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if fromID == toID {
		return ErrSelfTransfer
	}

	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		// Lock both rows in ascending id order so opposing transfers
		// between the same pair cannot deadlock.
		first, second := fromID, toID
		if second < first {
			first, second = second, first
		}

		locked := make(map[string]*models.Wallet, 2)
		for _, id := range []string{first, second} {
			w, err := tx.GetByIDForUpdate(id)
			if err != nil {
				return err
			}
			locked[id] = w
		}

		sender := locked[fromID]
		if sender.Balance < amount {
			return ErrInsufficientBalance
		}

		if err := tx.AdjustBalance(fromID, -amount); err != nil {
			return err
		}
		if err := tx.AdjustBalance(toID, amount); err != nil {
			return err
		}

		now := time.Now()
		out := &models.Transaction{
			WalletID:  fromID,
			Type:      models.TransactionTypeTransferOut,
			Amount:    amount,
			CreatedAt: now,
		}
		in := &models.Transaction{
			WalletID:  toID,
			Type:      models.TransactionTypeTransferIn,
			Amount:    amount,
			CreatedAt: now,
		}
		if err := tx.CreateTransaction(out); err != nil {
			return err
		}
		return tx.CreateTransaction(in)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, fromID)
	s.invalidate(ctx, toID)
	return nil
}

// resolveWallet reads through the cache; only plain validation reads hit it.
func (s *service) resolveWallet(ctx context.Context, id string) (*models.Wallet, error) {
	if wallet, err := s.cache.GetWallet(ctx, id); err == nil {
		return wallet, nil
	}

	wallet, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetWallet(ctx, wallet); err != nil {
		s.log.WithError(err).Debug("failed to cache wallet")
	}
	return wallet, nil
}

func (s *service) invalidate(ctx context.Context, id string) {
	if err := s.cache.InvalidateWallet(ctx, id); err != nil {
		s.log.WithError(err).WithField("wallet_id", id).Warn("failed to invalidate wallet cache")
	}
}

type noopCache struct{}

func (noopCache) GetWallet(ctx context.Context, id string) (*models.Wallet, error) {
	return nil, errors.New("cache disabled")
}
func (noopCache) SetWallet(ctx context.Context, wallet *models.Wallet) error { return nil }
func (noopCache) InvalidateWallet(ctx context.Context, id string) error      { return nil }
