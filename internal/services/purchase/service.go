// Package purchase turns purchase intents into gateway-initialized
// payments. Nothing here mutates the ledger; money is only recognized when
// the settlement event for the returned reference arrives.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payvault/internal/gateway/paystack"
	"payvault/internal/models"
	"payvault/internal/repositories"
	"payvault/internal/services/coupon"
)

// ActivationFee replaces a zero-value subscription first charge; the
// gateway refuses zero-amount transactions.
const ActivationFee = 50

// Recurring plan identity, created lazily on the gateway at most once.
const (
	PlanName     = "Monthly retainer"
	PlanInterval = "monthly"
	PlanAmount   = 500
)

// ErrFirstMonthFreeAlreadyUsed rejects a second lifetime use of the
// reserved coupon for a wallet or email.
var ErrFirstMonthFreeAlreadyUsed = errors.New("FIRSTMONTHFREE can only be used once per wallet")

// Intent is the gateway authorization handle for an initialized purchase.
type Intent struct {
	AuthorizationURL string  `json:"authorization_url"`
	Reference        string  `json:"reference"`
	FinalAmount      float64 `json:"final_amount"`
}

type Service interface {
	OneTimePurchase(ctx context.Context, walletID, email string, amount float64, couponCode string) (*Intent, error)
	SubscriptionPurchase(ctx context.Context, walletID, email string, amount float64, couponCode string) (*Intent, error)

	// Thin idempotent accessors over the gateway's remote resources.
	GetCustomer(ctx context.Context, emailOrCode string) (string, error)
	EnsurePlanExists(ctx context.Context) (string, error)
	CreateSubscription(ctx context.Context, customerCode, planCode string, startDate *time.Time) (*paystack.Subscription, error)
}

type service struct {
	wallets repositories.WalletRepository
	plans   repositories.PlanRepository
	coupons coupon.Service
	gateway paystack.Gateway
}

func NewService(wallets repositories.WalletRepository, plans repositories.PlanRepository, coupons coupon.Service, gateway paystack.Gateway) Service {
	if wallets == nil {
		panic("wallet repository is required")
	}
	if plans == nil {
		panic("plan repository is required")
	}
	if coupons == nil {
		panic("coupon service is required")
	}
	if gateway == nil {
		panic("payment gateway is required")
	}
	return &service{wallets: wallets, plans: plans, coupons: coupons, gateway: gateway}
}

func (s *service) OneTimePurchase(ctx context.Context, walletID, email string, amount float64, couponCode string) (*Intent, error) {
	wallet, err := s.wallets.GetByID(walletID)
	if err != nil {
		return nil, err
	}

	finalAmount := amount
	var codeUsed string
	if couponCode != "" {
		res, err := s.coupons.Evaluate(ctx, couponCode, amount, coupon.FlowOneTime)
		if err != nil {
			return nil, err
		}
		finalAmount = res.FinalAmount
		codeUsed = res.Coupon.Code
	}

	auth, err := s.gateway.InitializeTransaction(ctx, email, paystack.MinorUnits(finalAmount), paystack.Metadata{
		WalletID:       wallet.ID,
		OriginalAmount: amount,
		FinalAmount:    finalAmount,
		CouponCode:     codeUsed,
		Type:           paystack.ChargeTypeOneTime,
	})
	if err != nil {
		return nil, err
	}

	return &Intent{
		AuthorizationURL: auth.AuthorizationURL,
		Reference:        auth.Reference,
		FinalAmount:      finalAmount,
	}, nil
}

func (s *service) SubscriptionPurchase(ctx context.Context, walletID, email string, amount float64, couponCode string) (*Intent, error) {
	wallet, err := s.wallets.GetByID(walletID)
	if err != nil {
		return nil, err
	}

	finalAmount := amount
	var codeUsed string
	if couponCode != "" {
		res, err := s.coupons.Evaluate(ctx, couponCode, amount, coupon.FlowSubscription)
		if err != nil {
			return nil, err
		}
		finalAmount = res.FinalAmount
		codeUsed = res.Coupon.Code
	}

	// The reserved code is good once per wallet or email, ever, regardless
	// of its remaining usage budget.
	if codeUsed == models.CouponCodeFirstMonthFree {
		used, err := s.wallets.HasSubscriptionFirstCharge(wallet.ID, email)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, ErrFirstMonthFreeAlreadyUsed
		}
	}

	// A zero-value gateway charge is not permitted.
	if codeUsed == models.CouponCodeFirstMonthFree || finalAmount <= 0 {
		finalAmount = ActivationFee
	}

	auth, err := s.gateway.InitializeTransaction(ctx, email, paystack.MinorUnits(finalAmount), paystack.Metadata{
		WalletID:       wallet.ID,
		OriginalAmount: amount,
		FinalAmount:    finalAmount,
		CouponCode:     codeUsed,
		Type:           paystack.ChargeTypeSubscriptionFirstCharge,
	})
	if err != nil {
		return nil, err
	}

	return &Intent{
		AuthorizationURL: auth.AuthorizationURL,
		Reference:        auth.Reference,
		FinalAmount:      finalAmount,
	}, nil
}

func (s *service) GetCustomer(ctx context.Context, emailOrCode string) (string, error) {
	return s.gateway.GetCustomer(ctx, emailOrCode)
}

// EnsurePlanExists checks local storage before creating the plan remotely,
// so repeated calls never create duplicate remote plans.
func (s *service) EnsurePlanExists(ctx context.Context) (string, error) {
	plan, err := s.plans.GetByNameAndInterval(PlanName, PlanInterval)
	if err == nil {
		return plan.PlanCode, nil
	}
	if !errors.Is(err, repositories.ErrPlanNotFound) {
		return "", err
	}

	planCode, err := s.gateway.CreatePlan(ctx, PlanName, PlanInterval, paystack.MinorUnits(PlanAmount))
	if err != nil {
		return "", err
	}

	if err := s.plans.Create(&models.Plan{
		Name:     PlanName,
		Interval: PlanInterval,
		Amount:   PlanAmount,
		PlanCode: planCode,
	}); err != nil {
		// A concurrent caller won the insert race; use its plan.
		if errors.Is(err, repositories.ErrDuplicatePlan) {
			plan, err := s.plans.GetByNameAndInterval(PlanName, PlanInterval)
			if err != nil {
				return "", err
			}
			return plan.PlanCode, nil
		}
		return "", fmt.Errorf("failed to store plan: %w", err)
	}
	return planCode, nil
}

func (s *service) CreateSubscription(ctx context.Context, customerCode, planCode string, startDate *time.Time) (*paystack.Subscription, error) {
	return s.gateway.CreateSubscription(ctx, customerCode, planCode, startDate)
}
