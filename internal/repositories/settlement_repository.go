package repositories

import (
	"errors"
	"fmt"

	"payvault/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SettlementRepository groups the writes a settled charge needs into single
// units of work. The unique index on transactions.reference is the
// exactly-once backstop: a concurrent retry of the same event loses the
// insert race and surfaces ErrDuplicateReference.
type SettlementRepository interface {
	GetByReference(reference string) (*models.Transaction, error)
	// RecordCharge inserts the transaction row and, when couponCode is
	// non-empty, increments the coupon's usage in the same database
	// transaction. Usage can never drift ahead of the settled charge. A
	// refused increment (coupon already at max usage) does not fail the
	// unit of work: the charge was genuinely paid and must be recorded.
	RecordCharge(txn *models.Transaction, couponCode string) error
}

type settlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) GetByReference(reference string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.First(&txn, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *settlementRepository) RecordCharge(txn *models.Transaction, couponCode string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReference
			}
			return fmt.Errorf("failed to record charge: %w", err)
		}

		if couponCode == "" {
			return nil
		}

		result := tx.Model(&models.Coupon{}).
			Where("code = ? AND used_count < max_usage", couponCode).
			Update("used_count", gorm.Expr("used_count + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to increment coupon usage: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			ref := ""
			if txn.Reference != nil {
				ref = *txn.Reference
			}
			logrus.WithFields(logrus.Fields{
				"coupon":    couponCode,
				"reference": ref,
			}).Warn("coupon already at max usage, settled charge recorded without increment")
		}
		return nil
	})
}
