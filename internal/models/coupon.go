package models

import "time"

// Coupon discount kinds
const (
	CouponTypePercentage = "PERCENTAGE"
	CouponTypeFixed      = "FIXED"
)

// CouponCodeFirstMonthFree is reserved for subscription first charges; the
// coupon engine rejects it on one-time purchases and the orchestrator
// enforces at most one use per wallet or email.
const CouponCodeFirstMonthFree = "FIRSTMONTHFREE"

type Coupon struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"`
	Type      string    `gorm:"not null" json:"type"`
	Value     float64   `gorm:"not null" json:"value"`
	MaxUsage  int       `gorm:"not null" json:"max_usage"`
	UsedCount int       `gorm:"not null;default:0" json:"used_count"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
