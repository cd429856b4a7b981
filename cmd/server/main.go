// Package main is the entry point for the wallet service. It wires the
// database, cache, payment gateway and HTTP surface together and starts
// the server.
package main

import (
	"time"

	"payvault/internal/config"
	"payvault/internal/gateway/paystack"
	"payvault/internal/handlers"
	"payvault/internal/repositories"
	"payvault/internal/repositories/cache"
	"payvault/internal/routes"
	"payvault/internal/services/coupon"
	"payvault/internal/services/purchase"
	"payvault/internal/services/wallet"
	"payvault/internal/services/webhook"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadEnv()

	log := logrus.New()
	if config.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	secretKey := config.GetEnv("PAYSTACK_SECRET_KEY", "")
	if secretKey == "" {
		log.Fatal("PAYSTACK_SECRET_KEY not set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warnf("failed to close database connection: %v", err)
			}
		}
	}()

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	walletCache := cache.NewWalletCache(redisClient, config.GetDurationEnv("WALLET_CACHE_TTL", 24*time.Hour))
	defer func() {
		if err := walletCache.Close(); err != nil {
			log.Warnf("failed to close redis connection: %v", err)
		}
	}()

	gateway := paystack.NewClient(secretKey,
		paystack.WithTimeout(config.GetDurationEnv("PAYSTACK_TIMEOUT", 15*time.Second)))

	walletRepo := repositories.NewWalletRepository(repositories.DB)
	couponRepo := repositories.NewCouponRepository(repositories.DB)
	planRepo := repositories.NewPlanRepository(repositories.DB)
	settlementRepo := repositories.NewSettlementRepository(repositories.DB)

	couponService := coupon.NewService(couponRepo)
	walletService := wallet.NewService(walletRepo, gateway, walletCache, log)
	purchaseService := purchase.NewService(walletRepo, planRepo, couponService, gateway)
	webhookService := webhook.NewService(settlementRepo, walletService, purchaseService, log)

	walletHandler := handlers.NewWalletHandler(walletService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	webhookHandler := handlers.NewWebhookHandler(gateway, webhookService, log)
	healthHandler := handlers.NewHealthHandler(walletCache)

	app := fiber.New()
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, walletHandler, purchaseHandler, webhookHandler, healthHandler)

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
