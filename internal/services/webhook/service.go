// Package webhook reconciles payment-gateway confirmation events into
// durable ledger state exactly once. Failures are contained here: a bad
// event is logged and dropped without recording a settlement, so a
// well-formed retry of the same reference is reprocessed rather than
// treated as a duplicate.
package webhook

import (
	"context"
	"errors"

	"payvault/internal/models"
	"payvault/internal/repositories"
	"payvault/internal/services/purchase"
	"payvault/internal/services/wallet"

	"github.com/sirupsen/logrus"
)

type Service interface {
	HandleChargeSuccess(ctx context.Context, data ChargeData) error
}

type service struct {
	settlements repositories.SettlementRepository
	wallets     wallet.Service
	purchases   purchase.Service
	log         *logrus.Logger
}

func NewService(settlements repositories.SettlementRepository, wallets wallet.Service, purchases purchase.Service, log *logrus.Logger) Service {
	if settlements == nil {
		panic("settlement repository is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	if purchases == nil {
		panic("purchase service is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &service{settlements: settlements, wallets: wallets, purchases: purchases, log: log}
}

func (s *service) HandleChargeSuccess(ctx context.Context, data ChargeData) error {
	if data.Metadata.Type == "" {
		s.log.WithField("reference", data.Reference).Warn("charge event without metadata, ignoring")
		return nil
	}

	// Fast idempotency check; the unique reference constraint backstops
	// the race between two concurrent deliveries.
	if _, err := s.settlements.GetByReference(data.Reference); err == nil {
		s.log.WithField("reference", data.Reference).Info("event already handled")
		return nil
	} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
		return err
	}

	switch data.Metadata.Type {
	case models.TransactionTypeFund:
		return s.settleFund(ctx, data)
	case models.TransactionTypeOneTime:
		return s.settleCharge(ctx, data, models.TransactionTypeOneTime)
	case models.TransactionTypeSubscriptionFirstCharge:
		if err := s.settleCharge(ctx, data, models.TransactionTypeSubscriptionFirstCharge); err != nil {
			return err
		}
		if data.Metadata.CouponCode == models.CouponCodeFirstMonthFree {
			s.activateSubscription(ctx, data)
		}
		return nil
	default:
		s.log.WithFields(logrus.Fields{
			"reference": data.Reference,
			"type":      data.Metadata.Type,
		}).Warn("unhandled charge type, ignoring")
		return nil
	}
}

// settleFund credits the wallet balance; the credit is idempotent by
// reference so a duplicate delivery is a no-op.
func (s *service) settleFund(ctx context.Context, data ChargeData) error {
	return s.wallets.Credit(ctx, wallet.CreditRequest{
		WalletID:   data.Metadata.WalletID,
		Amount:     data.amountMajor(),
		Type:       models.TransactionTypeFund,
		Reference:  data.Reference,
		Email:      data.Customer.Email,
		Metadata:   data.metadataJSON(),
		OccurredAt: data.paidAt(),
	})
}

// settleCharge records the purchase transaction and the coupon usage in
// one unit of work. These charges pay for a product, not a balance top-up,
// so the wallet balance is untouched.
func (s *service) settleCharge(ctx context.Context, data ChargeData, txType string) error {
	ref := data.Reference
	txn := &models.Transaction{
		WalletID:  data.Metadata.WalletID,
		Type:      txType,
		Amount:    data.amountMajor(),
		Reference: &ref,
		Email:     data.Customer.Email,
		Metadata:  data.metadataJSON(),
		CreatedAt: data.paidAt(),
	}

	err := s.settlements.RecordCharge(txn, data.Metadata.CouponCode)
	if errors.Is(err, repositories.ErrDuplicateReference) {
		s.log.WithField("reference", data.Reference).Info("event already handled")
		return nil
	}
	return err
}

// activateSubscription creates the remote recurring subscription starting
// one calendar month after the paid first charge. The core transaction is
// already durable; a gateway failure here is logged, never retried through
// the ledger.
func (s *service) activateSubscription(ctx context.Context, data ChargeData) {
	log := s.log.WithField("reference", data.Reference)

	customerCode, err := s.purchases.GetCustomer(ctx, data.Customer.Email)
	if err != nil {
		log.WithError(err).Error("failed to resolve customer for subscription")
		return
	}

	planCode, err := s.purchases.EnsurePlanExists(ctx)
	if err != nil {
		log.WithError(err).Error("failed to ensure plan for subscription")
		return
	}

	startDate := data.paidAt().AddDate(0, 1, 0)
	if _, err := s.purchases.CreateSubscription(ctx, customerCode, planCode, &startDate); err != nil {
		log.WithError(err).Error("failed to create subscription")
		return
	}

	log.WithField("start_date", startDate).Info("subscription created")
}
