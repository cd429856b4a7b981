package repositories

import "payvault/internal/models"

// WalletRepository is the data access contract for wallets and their
// ledger entries. Balance-affecting sequences must run inside
// ExecuteInTransaction so reads and writes share one isolated unit of work.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByID(id string) (*models.Wallet, error)
	// GetByIDForUpdate reads the wallet row with a row-level write lock.
	// Only meaningful inside ExecuteInTransaction.
	GetByIDForUpdate(id string) (*models.Wallet, error)
	GetWithTransactions(id string) (*models.Wallet, error)
	List() ([]models.Wallet, error)
	// AdjustBalance applies a signed delta to the stored balance.
	AdjustBalance(id string, delta float64) error

	CreateTransaction(txn *models.Transaction) error
	// HasSubscriptionFirstCharge reports whether the wallet or email has a
	// prior SUBSCRIPTION_FIRST_CHARGE ledger entry.
	HasSubscriptionFirstCharge(walletID, email string) (bool, error)

	ExecuteInTransaction(fn func(WalletRepository) error) error
}
