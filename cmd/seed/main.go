// Command seed populates the coupons table with the launch promotions.
// Running it more than once is safe: codes that already exist are skipped.
package main

import (
	"time"

	"payvault/internal/config"
	"payvault/internal/models"
	"payvault/internal/repositories"

	"github.com/sirupsen/logrus"
)

func seedCoupons() []models.Coupon {
	expiresAt := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	return []models.Coupon{
		{
			Code:      "FESTIVE10",
			Type:      models.CouponTypePercentage,
			Value:     10,
			MaxUsage:  100,
			ExpiresAt: expiresAt,
			IsActive:  true,
		},
		{
			Code:      "WELCOME5000",
			Type:      models.CouponTypeFixed,
			Value:     5000,
			MaxUsage:  50,
			ExpiresAt: expiresAt,
			IsActive:  true,
		},
		{
			Code:      models.CouponCodeFirstMonthFree,
			Type:      models.CouponTypePercentage,
			Value:     100,
			MaxUsage:  50,
			ExpiresAt: expiresAt,
			IsActive:  true,
		},
	}
}

func seed(repo repositories.CouponRepository, log *logrus.Logger) error {
	for _, c := range seedCoupons() {
		exists, err := repo.ExistsByCode(c.Code)
		if err != nil {
			return err
		}
		if exists {
			log.Infof("coupon %s already exists, skipping", c.Code)
			continue
		}
		if err := repo.Create(&c); err != nil {
			return err
		}
		log.Infof("created coupon %s", c.Code)
	}
	return nil
}

func main() {
	config.LoadEnv()

	log := logrus.New()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := seed(repositories.NewCouponRepository(repositories.DB), log); err != nil {
		log.Fatalf("failed to seed coupons: %v", err)
	}

	log.Info("coupon seeding complete")
}
