package repositories

import "errors"

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrPlanNotFound        = errors.New("plan not found")

	// ErrDuplicatePlan indicates a plan with the same (name, interval)
	// already exists; a concurrent creator won the insert race.
	ErrDuplicatePlan = errors.New("duplicate plan")

	// ErrDuplicateReference indicates a transaction with the same gateway
	// reference already exists. Callers treat it as "already handled".
	ErrDuplicateReference = errors.New("duplicate transaction reference")

	// ErrCouponExhausted indicates a usage increment was refused because
	// the coupon already reached its max usage.
	ErrCouponExhausted = errors.New("coupon usage limit reached")
)
