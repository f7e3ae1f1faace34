package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindCredit = "credit"
	KindDebit  = "debit"
)

// Wallet is a per-user stored balance. The balance is mutated only through
// the repository so it always matches the transaction log.
type Wallet struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Transaction is an append-only ledger entry. Rows are never updated or
// deleted.
type Transaction struct {
	ID                    int64           `db:"id" json:"id"`
	WalletID              int64           `db:"wallet_id" json:"wallet_id"`
	Kind                  string          `db:"kind" json:"kind"`
	Amount                decimal.Decimal `db:"amount" json:"amount"`
	Description           string          `db:"description" json:"description"`
	StripePaymentIntentID *string         `db:"stripe_payment_intent_id" json:"stripe_payment_intent_id,omitempty"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
}
