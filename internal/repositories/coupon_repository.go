package repositories

import "payvault/internal/models"

type CouponRepository interface {
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	ExistsByCode(code string) (bool, error)
	// IncrementUsage bumps used_count by one, refusing to exceed max_usage.
	IncrementUsage(code string) error
}
