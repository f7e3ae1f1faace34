package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ReubenWash/reubensocials-backend/internal/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrWalletNotFound      = errors.New("wallet not found")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate returns the user's wallet, creating it with a zero balance on
// first access. Idempotent.
func (r *Repository) GetOrCreate(ctx context.Context, userID int64) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w, `SELECT * FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		 RETURNING id, user_id, balance, created_at, updated_at`,
		userID,
	).StructScan(w)

	if err != nil {
		return nil, err
	}

	return w, nil
}

// lockWallet loads the user's wallet inside tx with a row lock, creating it
// when missing.
func (r *Repository) lockWallet(ctx context.Context, tx *sqlx.Tx, userID int64) (*Wallet, error) {
	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT id, user_id, balance, created_at, updated_at
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&w)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING
		 RETURNING id, user_id, balance, created_at, updated_at`,
		userID,
	).StructScan(&w)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Lost the insert race to a concurrent first mutation; the row exists
	// now, so lock it.
	err = tx.QueryRowxContext(ctx,
		`SELECT id, user_id, balance, created_at, updated_at
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&w)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

func (r *Repository) apply(ctx context.Context, tx *sqlx.Tx, userID int64, kind string, amount decimal.Decimal, description string, externalRef *string) (*Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	w, err := r.lockWallet(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	var newBalance decimal.Decimal
	switch kind {
	case KindCredit:
		newBalance = w.Balance.Add(amount)
	case KindDebit:
		if amount.GreaterThan(w.Balance) {
			return nil, ErrInsufficientBalance
		}
		newBalance = w.Balance.Sub(amount)
	default:
		return nil, errors.New("unknown transaction kind: " + kind)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`,
		newBalance, w.ID,
	); err != nil {
		return nil, err
	}

	var txn Transaction
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, kind, amount, description, stripe_payment_intent_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, wallet_id, kind, amount, description, stripe_payment_intent_id, created_at`,
		w.ID, kind, amount, description, externalRef,
	).StructScan(&txn)
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// AddFundsTx credits the user's wallet inside an existing transaction.
// Balance update and log append commit or roll back together with the
// caller's other writes.
func (r *Repository) AddFundsTx(ctx context.Context, tx *sqlx.Tx, userID int64, amount decimal.Decimal, description string, externalRef *string) (*Transaction, error) {
	return r.apply(ctx, tx, userID, KindCredit, amount, description, externalRef)
}

// DeductFundsTx debits the user's wallet inside an existing transaction.
// Fails with ErrInsufficientBalance when the amount exceeds the balance,
// leaving the wallet untouched.
func (r *Repository) DeductFundsTx(ctx context.Context, tx *sqlx.Tx, userID int64, amount decimal.Decimal, description string, externalRef *string) (*Transaction, error) {
	return r.apply(ctx, tx, userID, KindDebit, amount, description, externalRef)
}

func (r *Repository) AddFunds(ctx context.Context, userID int64, amount decimal.Decimal, description string, externalRef *string) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txn, err := r.AddFundsTx(ctx, tx, userID, amount, description, externalRef)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.RecordWalletTransaction(KindCredit)
	return txn, nil
}

func (r *Repository) DeductFunds(ctx context.Context, userID int64, amount decimal.Decimal, description string, externalRef *string) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txn, err := r.DeductFundsTx(ctx, tx, userID, amount, description, externalRef)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.RecordWalletTransaction(KindDebit)
	return txn, nil
}

// ListTransactions returns the user's ledger entries, most recent first.
func (r *Repository) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var walletID int64
	err := r.db.GetContext(ctx, &walletID, `SELECT id FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Transaction{}, nil
		}
		return nil, err
	}

	txs := []Transaction{}
	err = r.db.SelectContext(ctx, &txs, `
		SELECT id, wallet_id, kind, amount, description, stripe_payment_intent_id, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
