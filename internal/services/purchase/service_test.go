package purchase

import (
	"context"
	"testing"
	"time"

	"payvault/internal/gateway/paystack"
	"payvault/internal/models"
	"payvault/internal/repositories"
	"payvault/internal/services/coupon"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWalletRepo struct {
	wallets      map[string]*models.Wallet
	firstCharges []models.Transaction
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[string]*models.Wallet)}
}

func (r *fakeWalletRepo) addWallet() *models.Wallet {
	w := &models.Wallet{ID: uuid.NewString(), Currency: "USD"}
	r.wallets[w.ID] = w
	return w
}

func (r *fakeWalletRepo) Create(w *models.Wallet) error { r.wallets[w.ID] = w; return nil }

func (r *fakeWalletRepo) GetByID(id string) (*models.Wallet, error) {
	w, ok := r.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return w, nil
}

func (r *fakeWalletRepo) GetByIDForUpdate(id string) (*models.Wallet, error) { return r.GetByID(id) }

func (r *fakeWalletRepo) GetWithTransactions(id string) (*models.Wallet, error) {
	return r.GetByID(id)
}

func (r *fakeWalletRepo) List() ([]models.Wallet, error) { return nil, nil }

func (r *fakeWalletRepo) AdjustBalance(id string, delta float64) error { return nil }

func (r *fakeWalletRepo) CreateTransaction(txn *models.Transaction) error { return nil }

func (r *fakeWalletRepo) HasSubscriptionFirstCharge(walletID, email string) (bool, error) {
	for _, txn := range r.firstCharges {
		if txn.WalletID == walletID || (email != "" && txn.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	return fn(r)
}

type fakePlanRepo struct {
	plans []*models.Plan

	// raceWinner, when set, is inserted during Create to simulate a
	// concurrent caller winning the (name, interval) insert race.
	raceWinner *models.Plan
}

func (r *fakePlanRepo) GetByNameAndInterval(name, interval string) (*models.Plan, error) {
	for _, p := range r.plans {
		if p.Name == name && p.Interval == interval {
			return p, nil
		}
	}
	return nil, repositories.ErrPlanNotFound
}

func (r *fakePlanRepo) Create(plan *models.Plan) error {
	if r.raceWinner != nil {
		r.plans = append(r.plans, r.raceWinner)
		r.raceWinner = nil
		return repositories.ErrDuplicatePlan
	}
	r.plans = append(r.plans, plan)
	return nil
}

type fakeCouponRepo struct {
	coupons map[string]*models.Coupon
}

func (r *fakeCouponRepo) GetByCode(code string) (*models.Coupon, error) {
	c, ok := r.coupons[code]
	if !ok {
		return nil, repositories.ErrCouponNotFound
	}
	return c, nil
}

func (r *fakeCouponRepo) Create(c *models.Coupon) error        { r.coupons[c.Code] = c; return nil }
func (r *fakeCouponRepo) ExistsByCode(code string) (bool, error) { _, ok := r.coupons[code]; return ok, nil }
func (r *fakeCouponRepo) IncrementUsage(code string) error     { r.coupons[code].UsedCount++; return nil }

type fakeGateway struct {
	initCalls   []initCall
	planCalls   int
	createdSubs []string
	err         error
}

type initCall struct {
	email       string
	amountMinor int64
	metadata    paystack.Metadata
}

func (g *fakeGateway) InitializeTransaction(ctx context.Context, email string, amountMinor int64, metadata paystack.Metadata) (*paystack.Authorization, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.initCalls = append(g.initCalls, initCall{email, amountMinor, metadata})
	return &paystack.Authorization{
		AuthorizationURL: "https://checkout.test/next",
		Reference:        "ref-" + uuid.NewString(),
	}, nil
}

func (g *fakeGateway) VerifySignature(payload []byte, signature string) bool { return true }

func (g *fakeGateway) GetCustomer(ctx context.Context, emailOrCode string) (string, error) {
	return "CUS_1", nil
}

func (g *fakeGateway) CreatePlan(ctx context.Context, name, interval string, amountMinor int64) (string, error) {
	g.planCalls++
	return "PLN_1", nil
}

func (g *fakeGateway) CreateSubscription(ctx context.Context, customerCode, planCode string, startDate *time.Time) (*paystack.Subscription, error) {
	g.createdSubs = append(g.createdSubs, customerCode+"/"+planCode)
	return &paystack.Subscription{SubscriptionCode: "SUB_1"}, nil
}

func testCoupons() coupon.Service {
	repo := &fakeCouponRepo{coupons: map[string]*models.Coupon{
		"FESTIVE10": {
			Code: "FESTIVE10", Type: models.CouponTypePercentage, Value: 10,
			MaxUsage: 100, ExpiresAt: time.Now().Add(time.Hour), IsActive: true,
		},
		models.CouponCodeFirstMonthFree: {
			Code: models.CouponCodeFirstMonthFree, Type: models.CouponTypePercentage, Value: 100,
			MaxUsage: 50, ExpiresAt: time.Now().Add(time.Hour), IsActive: true,
		},
	}}
	return coupon.NewService(repo)
}

func newTestSetup() (*fakeWalletRepo, *fakePlanRepo, *fakeGateway, Service) {
	wallets := newFakeWalletRepo()
	plans := &fakePlanRepo{}
	gw := &fakeGateway{}
	svc := NewService(wallets, plans, testCoupons(), gw)
	return wallets, plans, gw, svc
}

func TestOneTimePurchase_AppliesCoupon(t *testing.T) {
	wallets, _, gw, svc := newTestSetup()
	w := wallets.addWallet()

	intent, err := svc.OneTimePurchase(context.Background(), w.ID, "jo@example.com", 1000, "FESTIVE10")
	require.NoError(t, err)
	assert.Equal(t, float64(900), intent.FinalAmount)
	assert.NotEmpty(t, intent.Reference)

	require.Len(t, gw.initCalls, 1)
	call := gw.initCalls[0]
	assert.Equal(t, int64(90000), call.amountMinor)
	assert.Equal(t, paystack.ChargeTypeOneTime, call.metadata.Type)
	assert.Equal(t, w.ID, call.metadata.WalletID)
	assert.Equal(t, float64(1000), call.metadata.OriginalAmount)
	assert.Equal(t, float64(900), call.metadata.FinalAmount)
	assert.Equal(t, "FESTIVE10", call.metadata.CouponCode)
}

func TestOneTimePurchase_RejectsFirstMonthFree(t *testing.T) {
	wallets, _, gw, svc := newTestSetup()
	w := wallets.addWallet()

	_, err := svc.OneTimePurchase(context.Background(), w.ID, "jo@example.com", 1000, models.CouponCodeFirstMonthFree)
	assert.ErrorIs(t, err, coupon.ErrCouponNotApplicable)
	assert.Empty(t, gw.initCalls)
}

func TestOneTimePurchase_WalletNotFound(t *testing.T) {
	_, _, _, svc := newTestSetup()

	_, err := svc.OneTimePurchase(context.Background(), "missing", "jo@example.com", 1000, "")
	assert.ErrorIs(t, err, repositories.ErrWalletNotFound)
}

func TestSubscriptionPurchase_FirstMonthFreeChargesActivationFee(t *testing.T) {
	wallets, _, gw, svc := newTestSetup()
	w := wallets.addWallet()

	intent, err := svc.SubscriptionPurchase(context.Background(), w.ID, "jo@example.com", 500, models.CouponCodeFirstMonthFree)
	require.NoError(t, err)

	// 100% off would charge zero; the activation fee takes its place.
	assert.Equal(t, float64(ActivationFee), intent.FinalAmount)

	require.Len(t, gw.initCalls, 1)
	call := gw.initCalls[0]
	assert.Equal(t, paystack.MinorUnits(ActivationFee), call.amountMinor)
	assert.Equal(t, paystack.ChargeTypeSubscriptionFirstCharge, call.metadata.Type)
	assert.Equal(t, models.CouponCodeFirstMonthFree, call.metadata.CouponCode)
}

func TestSubscriptionPurchase_FirstMonthFreeOncePerWallet(t *testing.T) {
	wallets, _, _, svc := newTestSetup()
	w := wallets.addWallet()
	wallets.firstCharges = append(wallets.firstCharges, models.Transaction{
		WalletID: w.ID,
		Type:     models.TransactionTypeSubscriptionFirstCharge,
	})

	_, err := svc.SubscriptionPurchase(context.Background(), w.ID, "jo@example.com", 500, models.CouponCodeFirstMonthFree)
	assert.ErrorIs(t, err, ErrFirstMonthFreeAlreadyUsed)
}

func TestSubscriptionPurchase_FirstMonthFreeOncePerEmail(t *testing.T) {
	wallets, _, _, svc := newTestSetup()
	w := wallets.addWallet()
	other := wallets.addWallet()
	wallets.firstCharges = append(wallets.firstCharges, models.Transaction{
		WalletID: other.ID,
		Type:     models.TransactionTypeSubscriptionFirstCharge,
		Email:    "jo@example.com",
	})

	_, err := svc.SubscriptionPurchase(context.Background(), w.ID, "jo@example.com", 500, models.CouponCodeFirstMonthFree)
	assert.ErrorIs(t, err, ErrFirstMonthFreeAlreadyUsed)
}

func TestSubscriptionPurchase_WithoutCouponKeepsAmount(t *testing.T) {
	wallets, _, gw, svc := newTestSetup()
	w := wallets.addWallet()

	intent, err := svc.SubscriptionPurchase(context.Background(), w.ID, "jo@example.com", 500, "")
	require.NoError(t, err)
	assert.Equal(t, float64(500), intent.FinalAmount)
	assert.Equal(t, int64(50000), gw.initCalls[0].amountMinor)
}

func TestEnsurePlanExists_CreatesRemotePlanOnce(t *testing.T) {
	_, plans, gw, svc := newTestSetup()

	code, err := svc.EnsurePlanExists(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PLN_1", code)
	assert.Equal(t, 1, gw.planCalls)
	require.Len(t, plans.plans, 1)
	assert.Equal(t, PlanName, plans.plans[0].Name)

	// Second call is served from local storage.
	code, err = svc.EnsurePlanExists(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PLN_1", code)
	assert.Equal(t, 1, gw.planCalls)
}

func TestEnsurePlanExists_LosingInsertRaceUsesWinner(t *testing.T) {
	_, plans, _, svc := newTestSetup()
	plans.raceWinner = &models.Plan{
		Name: PlanName, Interval: PlanInterval, Amount: PlanAmount, PlanCode: "PLN_winner",
	}

	code, err := svc.EnsurePlanExists(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PLN_winner", code)
	require.Len(t, plans.plans, 1, "losing the insert race must not store a second plan")
}

func TestPurchase_GatewayFailureSurfaces(t *testing.T) {
	wallets := newFakeWalletRepo()
	gw := &fakeGateway{err: paystack.ErrUnavailable}
	svc := NewService(wallets, &fakePlanRepo{}, testCoupons(), gw)
	w := wallets.addWallet()

	_, err := svc.OneTimePurchase(context.Background(), w.ID, "jo@example.com", 1000, "")
	assert.ErrorIs(t, err, paystack.ErrUnavailable)
}
