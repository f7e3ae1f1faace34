package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// Purchase records that a user unlocked a priced post. Unique per
// (user_id, post_id).
type Purchase struct {
	ID                    int64           `db:"id" json:"id"`
	UserID                int64           `db:"user_id" json:"user_id"`
	PostID                int64           `db:"post_id" json:"post_id"`
	Amount                decimal.Decimal `db:"amount" json:"amount"`
	StripePaymentIntentID string          `db:"stripe_payment_intent_id" json:"stripe_payment_intent_id"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
}

// Payment is the external-payment audit record, one row per applied
// external reference.
type Payment struct {
	ID              int64           `db:"id" json:"id"`
	UserID          int64           `db:"user_id" json:"user_id"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	StripePaymentID string          `db:"stripe_payment_id" json:"stripe_payment_id"`
	Status          string          `db:"status" json:"status"`
	Description     string          `db:"description" json:"description"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

type AddFundsRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type PurchaseIntentRequest struct {
	PostID int64 `json:"post_id" binding:"required"`
}

type ConfirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	PostID          *int64 `json:"post_id"`
}

type WalletPurchaseRequest struct {
	PostID int64 `json:"post_id" binding:"required"`
}

type IntentResponse struct {
	ClientSecret    string          `json:"client_secret"`
	PaymentIntentID string          `json:"payment_intent_id"`
	Amount          decimal.Decimal `json:"amount"`
}

const (
	KindTopUp          = "top_up"
	KindPurchase       = "purchase"
	KindWalletPurchase = "wallet_purchase"
)

// ConfirmationResult reports what a confirmed payment was applied to.
type ConfirmationResult struct {
	Kind       string           `json:"kind"`
	Purchase   *Purchase        `json:"purchase,omitempty"`
	Payment    *Payment         `json:"payment"`
	NewBalance *decimal.Decimal `json:"new_balance,omitempty"`
}

// AccessResult is the read-side answer of the purchase gate.
type AccessResult struct {
	HasAccess bool             `json:"has_access"`
	Reason    string           `json:"reason,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}
