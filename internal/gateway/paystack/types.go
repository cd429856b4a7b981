package paystack

import (
	"context"
	"math"
	"time"
)

// MinorUnits converts a major-unit amount to the gateway's minor currency
// unit (value x 100, rounded).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Purchase kinds tagged onto initialization metadata. Settlement dispatches
// on this value when the confirmation event arrives.
const (
	ChargeTypeFund                    = "FUND"
	ChargeTypeOneTime                 = "ONE_TIME"
	ChargeTypeSubscriptionFirstCharge = "SUBSCRIPTION_FIRST_CHARGE"
)

// Metadata is attached to a transaction at initialization and echoed back
// verbatim on the settlement webhook. It is the only correlation between
// the purchase flow and the asynchronous confirmation.
type Metadata struct {
	WalletID       string  `json:"walletId"`
	OriginalAmount float64 `json:"originalAmount,omitempty"`
	FinalAmount    float64 `json:"finalAmount,omitempty"`
	CouponCode     string  `json:"couponCode,omitempty"`
	Type           string  `json:"type"`
}

// Authorization is the handle returned by transaction initialization.
type Authorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Subscription is the remote subscription resource.
type Subscription struct {
	SubscriptionCode string `json:"subscription_code"`
	EmailToken       string `json:"email_token"`
	Status           string `json:"status"`
}

// Gateway is the narrow contract the orchestrator and settlement handler
// depend on. Amounts cross this boundary in the gateway's minor currency
// unit.
type Gateway interface {
	InitializeTransaction(ctx context.Context, email string, amountMinor int64, metadata Metadata) (*Authorization, error)
	VerifySignature(payload []byte, signature string) bool
	GetCustomer(ctx context.Context, emailOrCode string) (string, error)
	CreatePlan(ctx context.Context, name, interval string, amountMinor int64) (string, error)
	CreateSubscription(ctx context.Context, customerCode, planCode string, startDate *time.Time) (*Subscription, error)
}
