package wallet

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type LedgerRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*Wallet, error)
	AddFunds(ctx context.Context, userID int64, amount decimal.Decimal, description string, externalRef *string) (*Transaction, error)
	DeductFunds(ctx context.Context, userID int64, amount decimal.Decimal, description string, externalRef *string) (*Transaction, error)
	AddFundsTx(ctx context.Context, tx *sqlx.Tx, userID int64, amount decimal.Decimal, description string, externalRef *string) (*Transaction, error)
	DeductFundsTx(ctx context.Context, tx *sqlx.Tx, userID int64, amount decimal.Decimal, description string, externalRef *string) (*Transaction, error)
	ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]Transaction, error)
}
