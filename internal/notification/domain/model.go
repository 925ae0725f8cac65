package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrValidationFailed means the gateway rejected the signed answer or was
// unreachable. Unlike the ignored outcomes it is surfaced to the caller.
var ErrValidationFailed = errors.New("validation_failed")

const Provider = "izipay"

// Notification is the normalized shape of an inbound payment notification.
// The IPN and webhook endpoints accept different field spellings; the
// normalizer folds all of them into this one record before any business
// logic runs.
type Notification struct {
	Answer        string
	Hash          string
	TransactionID string
	Amount        string
	Status        string
	OrderID       int64
	CustomerEmail string
	CustomerName  string
	CartItems     []CartItem
	Shipping      ShippingInfo
}

// MissingPaymentData returns the names of the required payment fields that
// are absent. A non-empty result means the notification is ignored without
// error.
func (n *Notification) MissingPaymentData() []string {
	var missing []string
	if n.Answer == "" {
		missing = append(missing, "kr_answer")
	}
	if n.Hash == "" {
		missing = append(missing, "kr_hash")
	}
	return missing
}

type CartItem struct {
	ProductID          int64
	Quantity           int
	Name               string
	Price              string
	Variations         []Variation
	SelectedAttributes map[string]string
}

// Variation is one purchasable SKU of a product, distinguished by its
// attribute choices.
type Variation struct {
	VariationID int64
	Attributes  map[string]string
}

type ShippingInfo struct {
	Address string
	City    string
	State   string
	ZipCode string
}

// ValidationResult is the gateway's verdict on a notification, produced by
// its server-side validation endpoint. Consumed immediately, never stored.
type ValidationResult struct {
	Valid         bool   `json:"valid"`
	Success       bool   `json:"success"`
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
}

const (
	OutcomeIgnored   = "ignored"
	OutcomeUpdated   = "order_updated"
	OutcomeCreated   = "order_created"
	OutcomeForwarded = "handled_by_webhook"
	OutcomeFailed    = "failed"
)

// Record is the persisted audit trail of a received notification, keyed
// uniquely by (provider, transaction_id). The unique key gives duplicate
// deliveries of the same transaction a best-effort dedup point; it does not
// close the race between two simultaneous notifications without an order id.
type Record struct {
	ID            snowflake.ID   `json:"id" gorm:"primaryKey"`
	Provider      string         `json:"provider" gorm:"type:text;not null;uniqueIndex:ux_payment_notifications_provider_txn,priority:1"`
	TransactionID string         `json:"transaction_id" gorm:"type:text;not null;uniqueIndex:ux_payment_notifications_provider_txn,priority:2"`
	Status        string         `json:"status" gorm:"type:text;not null"`
	OrderID       int64          `json:"order_id"`
	Payload       datatypes.JSON `json:"payload" gorm:"not null"`
	Result        datatypes.JSON `json:"result"`
	ReceivedAt    time.Time      `json:"received_at" gorm:"not null"`
	ProcessedAt   *time.Time     `json:"processed_at"`
}

func (Record) TableName() string { return "payment_notifications" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *Record) (bool, error)
	Find(ctx context.Context, db *gorm.DB, provider string, transactionID string) (*Record, error)
	MarkProcessed(ctx context.Context, db *gorm.DB, id snowflake.ID, orderID int64, result []byte, processedAt time.Time) error
}
