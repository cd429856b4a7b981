package wallet

import "errors"

// Service errors
var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrSelfTransfer        = errors.New("cannot transfer to the same wallet")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
