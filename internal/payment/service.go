package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/ReubenWash/reubensocials-backend/internal/logger"
	"github.com/ReubenWash/reubensocials-backend/internal/metrics"
	"github.com/ReubenWash/reubensocials-backend/internal/post"
	"github.com/ReubenWash/reubensocials-backend/internal/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSelfPurchase        = errors.New("cannot purchase your own content")
	ErrNotExclusive        = errors.New("post is not exclusive content")
	ErrPaymentNotSucceeded = errors.New("payment has not succeeded")
)

// ContentCatalog is the narrow slice of the post store the purchase gate
// consults.
type ContentCatalog interface {
	GetByID(ctx context.Context, id int64) (*post.Post, error)
}

// BalanceStore reports wallet balances for confirmation responses.
type BalanceStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*wallet.Wallet, error)
}

type Notifier interface {
	Notify(ctx context.Context, recipientID, senderID int64, notifType, content, link string)
}

type Service interface {
	HasAccess(ctx context.Context, userID int64, p *post.Post) (bool, error)
	CheckAccess(ctx context.Context, userID, postID int64) (*AccessResult, error)
	PriceOf(p *post.Post) decimal.Decimal
	CreateTopUpIntent(ctx context.Context, userID int64, amount decimal.Decimal) (*IntentResponse, error)
	CreatePurchaseIntent(ctx context.Context, userID, postID int64) (*IntentResponse, error)
	Confirm(ctx context.Context, userID int64, externalRef string, postID *int64) (*ConfirmationResult, error)
	PurchaseWithWallet(ctx context.Context, userID, postID int64) (*ConfirmationResult, error)
	PurchaseHistory(ctx context.Context, userID int64) ([]Purchase, error)
	SalesHistory(ctx context.Context, authorID int64) ([]Purchase, error)
	PaymentHistory(ctx context.Context, userID int64) ([]Payment, error)
}

type service struct {
	repo         PaymentRepository
	catalog      ContentCatalog
	balances     BalanceStore
	gateway      Gateway
	notifier     Notifier
	defaultPrice decimal.Decimal
}

func NewService(repo PaymentRepository, catalog ContentCatalog, balances BalanceStore, gateway Gateway, notifier Notifier, defaultPrice decimal.Decimal) Service {
	return &service{
		repo:         repo,
		catalog:      catalog,
		balances:     balances,
		gateway:      gateway,
		notifier:     notifier,
		defaultPrice: defaultPrice,
	}
}

// HasAccess implements the purchase gate: content that is not exclusive is
// open, authors always see their own posts, everyone else needs a Purchase
// row.
func (s *service) HasAccess(ctx context.Context, userID int64, p *post.Post) (bool, error) {
	if !p.IsExclusive {
		return true, nil
	}
	if p.AuthorID == userID {
		return true, nil
	}
	return s.repo.HasPurchase(ctx, userID, p.ID)
}

func (s *service) CheckAccess(ctx context.Context, userID, postID int64) (*AccessResult, error) {
	p, err := s.catalog.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !p.IsExclusive {
		return &AccessResult{HasAccess: true, Reason: "not_exclusive"}, nil
	}
	if p.AuthorID == userID {
		return &AccessResult{HasAccess: true, Reason: "owner"}, nil
	}

	purchased, err := s.repo.HasPurchase(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if purchased {
		return &AccessResult{HasAccess: true, Reason: "purchased"}, nil
	}

	price := s.PriceOf(p)
	return &AccessResult{HasAccess: false, Price: &price}, nil
}

// PriceOf returns the post's configured price, falling back to the default
// when unset or non-positive.
func (s *service) PriceOf(p *post.Post) decimal.Decimal {
	if p.Price == nil || p.Price.LessThanOrEqual(decimal.Zero) {
		return s.defaultPrice
	}
	return *p.Price
}

// validatePurchase runs the gate checks shared by intent creation and both
// purchase paths.
func (s *service) validatePurchase(ctx context.Context, userID int64, p *post.Post) error {
	if !p.IsExclusive {
		return ErrNotExclusive
	}
	if p.AuthorID == userID {
		return ErrSelfPurchase
	}

	purchased, err := s.repo.HasPurchase(ctx, userID, p.ID)
	if err != nil {
		return err
	}
	if purchased {
		return ErrAlreadyPurchased
	}
	return nil
}

func (s *service) CreateTopUpIntent(ctx context.Context, userID int64, amount decimal.Decimal) (*IntentResponse, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, wallet.ErrInvalidAmount
	}

	intent, err := s.gateway.CreateIntent(ctx, CreateIntentParams{
		AmountCents: amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Description: fmt.Sprintf("Add %s to wallet for user %d", amount.StringFixed(2), userID),
		Metadata: map[string]string{
			"user_id": fmt.Sprintf("%d", userID),
			"type":    "add_funds",
		},
	})
	if err != nil {
		return nil, err
	}

	return &IntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          amount,
	}, nil
}

func (s *service) CreatePurchaseIntent(ctx context.Context, userID, postID int64) (*IntentResponse, error) {
	p, err := s.catalog.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.validatePurchase(ctx, userID, p); err != nil {
		return nil, err
	}

	amount := s.PriceOf(p)
	intent, err := s.gateway.CreateIntent(ctx, CreateIntentParams{
		AmountCents: amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Description: fmt.Sprintf("Purchase exclusive content, post #%d", p.ID),
		Metadata: map[string]string{
			"user_id": fmt.Sprintf("%d", userID),
			"post_id": fmt.Sprintf("%d", p.ID),
			"type":    "purchase_content",
		},
	})
	if err != nil {
		return nil, err
	}

	return &IntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          amount,
	}, nil
}

// Confirm applies one confirmed external payment. The gateway's reported
// amount is authoritative; the caller never supplies it. With a post id the
// payment unlocks content, otherwise it credits the wallet. Either way all
// rows commit in one transaction keyed by the unique external reference, so
// retries short-circuit instead of double-applying.
func (s *service) Confirm(ctx context.Context, userID int64, externalRef string, postID *int64) (*ConfirmationResult, error) {
	intent, err := s.gateway.RetrieveIntent(ctx, externalRef)
	if err != nil {
		return nil, err
	}
	if intent.Status != IntentStatusSucceeded {
		return nil, fmt.Errorf("%w: status %s", ErrPaymentNotSucceeded, intent.Status)
	}

	amount := decimal.New(intent.AmountCents, -2)

	if postID != nil {
		p, err := s.catalog.GetByID(ctx, *postID)
		if err != nil {
			return nil, err
		}
		if !p.IsExclusive {
			return nil, ErrNotExclusive
		}
		if p.AuthorID == userID {
			return nil, ErrSelfPurchase
		}

		purchase, pm, err := s.repo.ConfirmPurchase(ctx, userID, p.ID, amount, externalRef,
			fmt.Sprintf("Purchase: Exclusive Post #%d", p.ID))
		if err != nil {
			metrics.RecordPaymentConfirmed(KindPurchase, "rejected")
			return nil, err
		}

		metrics.RecordPaymentConfirmed(KindPurchase, "applied")
		metrics.RecordPurchase("stripe")
		logger.Info("purchase confirmed",
			"user_id", userID, "post_id", p.ID, "amount", amount.StringFixed(2), "ref", externalRef)

		s.notifier.Notify(ctx, p.AuthorID, userID, "purchase",
			"Your exclusive post was purchased",
			fmt.Sprintf("/post/%d", p.ID))

		return &ConfirmationResult{Kind: KindPurchase, Purchase: purchase, Payment: pm}, nil
	}

	_, pm, err := s.repo.ConfirmTopUp(ctx, userID, amount, externalRef, "Funds Added via Stripe")
	if err != nil {
		metrics.RecordPaymentConfirmed(KindTopUp, "rejected")
		return nil, err
	}

	metrics.RecordPaymentConfirmed(KindTopUp, "applied")
	logger.Info("wallet top-up confirmed",
		"user_id", userID, "amount", amount.StringFixed(2), "ref", externalRef)

	w, err := s.balances.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ConfirmationResult{Kind: KindTopUp, Payment: pm, NewBalance: &w.Balance}, nil
}

// PurchaseWithWallet unlocks a post from stored balance instead of a fresh
// card payment.
func (s *service) PurchaseWithWallet(ctx context.Context, userID, postID int64) (*ConfirmationResult, error) {
	p, err := s.catalog.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.validatePurchase(ctx, userID, p); err != nil {
		return nil, err
	}

	amount := s.PriceOf(p)
	reference := "wallet_" + uuid.NewString()

	purchase, _, pm, err := s.repo.WalletPurchase(ctx, userID, p.ID, amount, reference,
		fmt.Sprintf("Wallet purchase: Exclusive Post #%d", p.ID))
	if err != nil {
		return nil, err
	}

	metrics.RecordPurchase("wallet")
	logger.Info("wallet purchase",
		"user_id", userID, "post_id", p.ID, "amount", amount.StringFixed(2))

	s.notifier.Notify(ctx, p.AuthorID, userID, "purchase",
		"Your exclusive post was purchased",
		fmt.Sprintf("/post/%d", p.ID))

	w, err := s.balances.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ConfirmationResult{Kind: KindWalletPurchase, Purchase: purchase, Payment: pm, NewBalance: &w.Balance}, nil
}

func (s *service) PurchaseHistory(ctx context.Context, userID int64) ([]Purchase, error) {
	return s.repo.ListPurchases(ctx, userID)
}

func (s *service) SalesHistory(ctx context.Context, authorID int64) ([]Purchase, error) {
	return s.repo.ListSales(ctx, authorID)
}

func (s *service) PaymentHistory(ctx context.Context, userID int64) ([]Payment, error) {
	return s.repo.ListPayments(ctx, userID)
}
