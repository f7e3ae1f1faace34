package payment

import (
	"context"

	"github.com/ReubenWash/reubensocials-backend/internal/wallet"

	"github.com/shopspring/decimal"
)

type PaymentRepository interface {
	HasPurchase(ctx context.Context, userID, postID int64) (bool, error)
	ConfirmPurchase(ctx context.Context, userID, postID int64, amount decimal.Decimal, externalRef, description string) (*Purchase, *Payment, error)
	ConfirmTopUp(ctx context.Context, userID int64, amount decimal.Decimal, externalRef, description string) (*wallet.Transaction, *Payment, error)
	WalletPurchase(ctx context.Context, userID, postID int64, amount decimal.Decimal, reference, description string) (*Purchase, *wallet.Transaction, *Payment, error)
	ListPurchases(ctx context.Context, userID int64) ([]Purchase, error)
	ListSales(ctx context.Context, authorID int64) ([]Purchase, error)
	ListPayments(ctx context.Context, userID int64) ([]Payment, error)
}
