package routes

import (
	"time"

	"payvault/internal/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// SetupRoutes wires the wallet API and the settlement webhook.
func SetupRoutes(app *fiber.App, walletHandler *handlers.WalletHandler, purchaseHandler *handlers.PurchaseHandler, webhookHandler *handlers.WebhookHandler, healthHandler *handlers.HealthHandler) {
	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	wallets := api.Group("/wallets")
	wallets.Post("/", walletHandler.CreateWallet)
	wallets.Get("/", walletHandler.ListWallets)
	wallets.Get("/:id", walletHandler.GetWallet)
	wallets.Post("/:id/fund", walletHandler.FundWallet)
	wallets.Post("/transfer", walletHandler.Transfer)

	purchases := api.Group("/purchases")
	purchases.Post("/one-time", purchaseHandler.OneTimePurchase)
	purchases.Post("/subscription", purchaseHandler.SubscriptionPurchase)

	// The gateway retries on transport failures only; keep a generous
	// ceiling against runaway redelivery.
	app.Post("/webhook", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), webhookHandler.Handle)
}
