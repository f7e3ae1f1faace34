package payment

import (
	"context"
	"errors"

	"github.com/ReubenWash/reubensocials-backend/internal/wallet"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	// ErrAlreadyPurchased is returned when a Purchase row for the
	// (user, post) pair already exists. Under concurrent confirmations the
	// losing writer observes the unique constraint and gets this error.
	ErrAlreadyPurchased = errors.New("content already purchased")

	// ErrPaymentAlreadyApplied short-circuits a retry of an external
	// reference whose effect has already committed.
	ErrPaymentAlreadyApplied = errors.New("payment already applied")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
}

type Repository struct {
	db     *sqlx.DB
	ledger *wallet.Repository
}

func NewRepository(db *sqlx.DB, ledger *wallet.Repository) *Repository {
	return &Repository{db: db, ledger: ledger}
}

func (r *Repository) HasPurchase(ctx context.Context, userID, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM purchases WHERE user_id = $1 AND post_id = $2)`,
		userID, postID,
	)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// refApplied reports whether an external payment reference has already been
// turned into rows. Runs inside the confirmation transaction so a retry
// cannot double-apply.
func (r *Repository) refApplied(ctx context.Context, tx *sqlx.Tx, externalRef string) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM payments WHERE stripe_payment_id = $1)`,
		externalRef,
	)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repository) insertPurchase(ctx context.Context, tx *sqlx.Tx, userID, postID int64, amount decimal.Decimal, externalRef string) (*Purchase, error) {
	var p Purchase
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO purchases (user_id, post_id, amount, stripe_payment_intent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, userID, postID, amount, externalRef).StructScan(&p)
	if err != nil {
		if isUniqueViolation(err, "purchases_user_id_post_id_key") {
			return nil, ErrAlreadyPurchased
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) insertPayment(ctx context.Context, tx *sqlx.Tx, userID int64, amount decimal.Decimal, externalRef, status, description string) (*Payment, error) {
	var pm Payment
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO payments (user_id, amount, stripe_payment_id, status, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, userID, amount, externalRef, status, description).StructScan(&pm)
	if err != nil {
		if isUniqueViolation(err, "payments_stripe_payment_id_key") {
			return nil, ErrPaymentAlreadyApplied
		}
		return nil, err
	}
	return &pm, nil
}

// ConfirmPurchase writes the Purchase row and the completed Payment audit
// row in one transaction. The wallet is not touched. Safe to retry with the
// same external reference.
func (r *Repository) ConfirmPurchase(ctx context.Context, userID, postID int64, amount decimal.Decimal, externalRef, description string) (*Purchase, *Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	applied, err := r.refApplied(ctx, tx, externalRef)
	if err != nil {
		return nil, nil, err
	}
	if applied {
		// The earlier application of this reference bought the post, so a
		// retry reads as a duplicate purchase.
		return nil, nil, ErrAlreadyPurchased
	}

	purchase, err := r.insertPurchase(ctx, tx, userID, postID, amount, externalRef)
	if err != nil {
		return nil, nil, err
	}

	pm, err := r.insertPayment(ctx, tx, userID, amount, externalRef, StatusCompleted, description)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return purchase, pm, nil
}

// ConfirmTopUp credits the wallet and writes the completed Payment audit
// row in one transaction.
func (r *Repository) ConfirmTopUp(ctx context.Context, userID int64, amount decimal.Decimal, externalRef, description string) (*wallet.Transaction, *Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	applied, err := r.refApplied(ctx, tx, externalRef)
	if err != nil {
		return nil, nil, err
	}
	if applied {
		return nil, nil, ErrPaymentAlreadyApplied
	}

	txn, err := r.ledger.AddFundsTx(ctx, tx, userID, amount, description, &externalRef)
	if err != nil {
		return nil, nil, err
	}

	pm, err := r.insertPayment(ctx, tx, userID, amount, externalRef, StatusCompleted, description)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return txn, pm, nil
}

// WalletPurchase unlocks a post from the wallet balance: debit, Purchase
// row and Payment audit row all commit or roll back together.
func (r *Repository) WalletPurchase(ctx context.Context, userID, postID int64, amount decimal.Decimal, reference, description string) (*Purchase, *wallet.Transaction, *Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	defer tx.Rollback()

	txn, err := r.ledger.DeductFundsTx(ctx, tx, userID, amount, description, &reference)
	if err != nil {
		return nil, nil, nil, err
	}

	purchase, err := r.insertPurchase(ctx, tx, userID, postID, amount, reference)
	if err != nil {
		return nil, nil, nil, err
	}

	pm, err := r.insertPayment(ctx, tx, userID, amount, reference, StatusCompleted, description)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, nil, err
	}

	return purchase, txn, pm, nil
}

func (r *Repository) ListPurchases(ctx context.Context, userID int64) ([]Purchase, error) {
	purchases := []Purchase{}
	err := r.db.SelectContext(ctx, &purchases, `
		SELECT *
		FROM purchases
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// ListSales returns purchases of the author's posts, newest first.
func (r *Repository) ListSales(ctx context.Context, authorID int64) ([]Purchase, error) {
	sales := []Purchase{}
	err := r.db.SelectContext(ctx, &sales, `
		SELECT pu.*
		FROM purchases pu
		JOIN posts p ON p.id = pu.post_id
		WHERE p.author_id = $1
		ORDER BY pu.created_at DESC
	`, authorID)
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *Repository) ListPayments(ctx context.Context, userID int64) ([]Payment, error) {
	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT *
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return payments, nil
}
