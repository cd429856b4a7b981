// Package coupon evaluates discount codes against eligibility rules and
// computes discounted amounts. Evaluation never mutates usage counts;
// usage is recorded only once settlement confirms the charge.
package coupon

import (
	"context"
	"errors"
	"time"

	"payvault/internal/models"
	"payvault/internal/repositories"
)

// Flow identifies the purchase context a coupon is evaluated for.
type Flow string

const (
	FlowOneTime      Flow = "one_time"
	FlowSubscription Flow = "subscription"
)

// Result holds the outcome of a coupon evaluation.
type Result struct {
	Coupon         *models.Coupon
	OriginalAmount float64
	FinalAmount    float64
}

type Service interface {
	// Evaluate validates the code for the given flow and computes the
	// discounted amount. Read-only.
	Evaluate(ctx context.Context, code string, baseAmount float64, flow Flow) (*Result, error)
	// RecordUsage consumes one use of the coupon. Called only after a
	// settled charge.
	RecordUsage(ctx context.Context, code string) error
}

type service struct {
	repo repositories.CouponRepository
}

func NewService(repo repositories.CouponRepository) Service {
	if repo == nil {
		panic("coupon repository is required")
	}
	return &service{repo: repo}
}

func (s *service) Evaluate(ctx context.Context, code string, baseAmount float64, flow Flow) (*Result, error) {
	c, err := s.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrCouponNotFound) {
			return nil, ErrInvalidCoupon
		}
		return nil, err
	}
	if !c.IsActive {
		return nil, ErrInvalidCoupon
	}

	if !time.Now().Before(c.ExpiresAt) {
		return nil, ErrCouponExpired
	}

	if c.UsedCount >= c.MaxUsage {
		return nil, ErrCouponLimitReached
	}

	// FIRSTMONTHFREE only makes sense on a subscription first charge.
	if c.Code == models.CouponCodeFirstMonthFree && flow == FlowOneTime {
		return nil, ErrCouponNotApplicable
	}

	var discount float64
	if c.Type == models.CouponTypePercentage {
		discount = c.Value / 100 * baseAmount
	} else {
		discount = c.Value
	}

	final := baseAmount - discount
	if final < 0 {
		final = 0
	}

	return &Result{
		Coupon:         c,
		OriginalAmount: baseAmount,
		FinalAmount:    final,
	}, nil
}

func (s *service) RecordUsage(ctx context.Context, code string) error {
	return s.repo.IncrementUsage(code)
}
