package repositories

import (
	"errors"
	"fmt"

	"payvault/internal/models"

	"gorm.io/gorm"
)

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return &coupon, nil
}

func (r *couponRepository) Create(coupon *models.Coupon) error {
	if err := r.db.Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

func (r *couponRepository) ExistsByCode(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Coupon{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check coupon existence: %w", err)
	}
	return count > 0, nil
}

func (r *couponRepository) IncrementUsage(code string) error {
	result := r.db.Model(&models.Coupon{}).
		Where("code = ? AND used_count < max_usage", code).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment coupon usage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}
