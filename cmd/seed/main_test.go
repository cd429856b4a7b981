package main

import (
	"testing"

	"payvault/internal/models"
	"payvault/internal/repositories"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCouponRepo struct {
	coupons map[string]*models.Coupon
	created int
}

func newMemoryCouponRepo() *memoryCouponRepo {
	return &memoryCouponRepo{coupons: make(map[string]*models.Coupon)}
}

func (r *memoryCouponRepo) GetByCode(code string) (*models.Coupon, error) {
	c, ok := r.coupons[code]
	if !ok {
		return nil, repositories.ErrCouponNotFound
	}
	return c, nil
}

func (r *memoryCouponRepo) Create(c *models.Coupon) error {
	r.coupons[c.Code] = c
	r.created++
	return nil
}

func (r *memoryCouponRepo) ExistsByCode(code string) (bool, error) {
	_, ok := r.coupons[code]
	return ok, nil
}

func (r *memoryCouponRepo) IncrementUsage(code string) error {
	r.coupons[code].UsedCount++
	return nil
}

func TestSeedCreatesAllCoupons(t *testing.T) {
	repo := newMemoryCouponRepo()

	require.NoError(t, seed(repo, logrus.New()))

	assert.Equal(t, 3, repo.created)
	for _, code := range []string{"FESTIVE10", "WELCOME5000", models.CouponCodeFirstMonthFree} {
		c, err := repo.GetByCode(code)
		require.NoError(t, err)
		assert.True(t, c.IsActive)
		assert.Zero(t, c.UsedCount)
	}
}

func TestSeedSkipsExistingCoupons(t *testing.T) {
	repo := newMemoryCouponRepo()

	require.NoError(t, seed(repo, logrus.New()))
	require.NoError(t, seed(repo, logrus.New()))

	assert.Equal(t, 3, repo.created, "a second run must not recreate coupons")
}
