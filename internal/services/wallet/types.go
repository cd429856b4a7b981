package wallet

import (
	"context"
	"time"

	"payvault/internal/models"
)

// CreditRequest describes an atomic ledger credit. Reference, when set,
// makes the credit idempotent: a second request with the same reference is
// a no-op success.
type CreditRequest struct {
	WalletID   string
	Amount     float64
	Type       string
	Reference  string
	Email      string
	Metadata   models.JSON
	OccurredAt time.Time
}

// FundIntent is the gateway authorization handle returned by FundWallet.
// No money moves until the settlement event for Reference arrives.
type FundIntent struct {
	AuthorizationURL string  `json:"authorization_url"`
	Reference        string  `json:"reference"`
	Amount           float64 `json:"amount"`
}

// Cache is the read-through cache contract for wallet lookups.
type Cache interface {
	GetWallet(ctx context.Context, id string) (*models.Wallet, error)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, id string) error
}
