package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction types
const (
	TransactionTypeFund                    = "FUND"
	TransactionTypeTransferIn              = "TRANSFER_IN"
	TransactionTypeTransferOut             = "TRANSFER_OUT"
	TransactionTypeOneTime                 = "ONE_TIME"
	TransactionTypeSubscriptionFirstCharge = "SUBSCRIPTION_FIRST_CHARGE"
)

// Transaction is an immutable ledger entry. Reference carries the payment
// gateway's idempotency key; the unique index on it is what guarantees a
// settlement event is applied at most once.
type Transaction struct {
	ID        string    `gorm:"primarykey;size:36" json:"id"`
	WalletID  string    `gorm:"size:36;index;not null" json:"wallet_id"`
	Type      string    `gorm:"not null" json:"type"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Reference *string   `gorm:"uniqueIndex" json:"reference,omitempty"`
	Email     string    `json:"email,omitempty"`
	Metadata  JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
