package coupon

import "errors"

// Service errors
var (
	ErrInvalidCoupon       = errors.New("invalid coupon")
	ErrCouponExpired       = errors.New("coupon expired")
	ErrCouponLimitReached  = errors.New("coupon usage limit reached")
	ErrCouponNotApplicable = errors.New("coupon not applicable to this purchase")
)
