package webhook

import (
	"time"

	"payvault/internal/gateway/paystack"
	"payvault/internal/models"
)

// EventChargeSuccess is the only event kind settlement acts on.
const EventChargeSuccess = "charge.success"

// Event is the inbound gateway webhook envelope.
type Event struct {
	Event string     `json:"event"`
	Data  ChargeData `json:"data"`
}

// ChargeData carries a confirmed charge. Amount is in the gateway's minor
// currency unit; Metadata is echoed verbatim from purchase initialization.
type ChargeData struct {
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	PaidAt    string            `json:"paid_at"`
	Customer  Customer          `json:"customer"`
	Metadata  paystack.Metadata `json:"metadata"`
}

type Customer struct {
	Email string `json:"email"`
}

// paidAt falls back to the receive time when the gateway omits or mangles
// the timestamp.
func (d ChargeData) paidAt() time.Time {
	if t, err := time.Parse(time.RFC3339, d.PaidAt); err == nil {
		return t
	}
	return time.Now()
}

// amountMajor converts the paid amount back to major units.
func (d ChargeData) amountMajor() float64 {
	return float64(d.Amount) / 100
}

// metadataJSON converts the echoed initialization metadata into the
// ledger's storage shape, so the settled row carries what the purchase
// was initialized with.
func (d ChargeData) metadataJSON() models.JSON {
	m := models.JSON{
		"walletId": d.Metadata.WalletID,
		"type":     d.Metadata.Type,
	}
	if d.Metadata.OriginalAmount != 0 {
		m["originalAmount"] = d.Metadata.OriginalAmount
	}
	if d.Metadata.FinalAmount != 0 {
		m["finalAmount"] = d.Metadata.FinalAmount
	}
	if d.Metadata.CouponCode != "" {
		m["couponCode"] = d.Metadata.CouponCode
	}
	return m
}
