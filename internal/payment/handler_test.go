package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ReubenWash/reubensocials-backend/internal/auth"
	"github.com/ReubenWash/reubensocials-backend/internal/post"
	"github.com/ReubenWash/reubensocials-backend/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct{ mock.Mock }

func (m *MockService) HasAccess(ctx context.Context, userID int64, p *post.Post) (bool, error) {
	args := m.Called(ctx, userID, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockService) CheckAccess(ctx context.Context, userID, postID int64) (*AccessResult, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AccessResult), args.Error(1)
}

func (m *MockService) PriceOf(p *post.Post) decimal.Decimal {
	return m.Called(p).Get(0).(decimal.Decimal)
}

func (m *MockService) CreateTopUpIntent(ctx context.Context, userID int64, amount decimal.Decimal) (*IntentResponse, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*IntentResponse), args.Error(1)
}

func (m *MockService) CreatePurchaseIntent(ctx context.Context, userID, postID int64) (*IntentResponse, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*IntentResponse), args.Error(1)
}

func (m *MockService) Confirm(ctx context.Context, userID int64, externalRef string, postID *int64) (*ConfirmationResult, error) {
	args := m.Called(ctx, userID, externalRef, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ConfirmationResult), args.Error(1)
}

func (m *MockService) PurchaseWithWallet(ctx context.Context, userID, postID int64) (*ConfirmationResult, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ConfirmationResult), args.Error(1)
}

func (m *MockService) SalesHistory(ctx context.Context, authorID int64) ([]Purchase, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Purchase), args.Error(1)
}

func (m *MockService) PurchaseHistory(ctx context.Context, userID int64) ([]Purchase, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Purchase), args.Error(1)
}

func (m *MockService) PaymentHistory(ctx context.Context, userID int64) ([]Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Payment), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", int64(3))
		c.Next()
	})
	router.POST("/payments/topup-intent", h.CreateTopUpIntent)
	router.POST("/payments/purchase-intent", h.CreatePurchaseIntent)
	router.POST("/payments/confirm", h.Confirm)
	router.POST("/payments/wallet-purchase", h.PurchaseWithWallet)
	router.GET("/posts/:postID/access", h.CheckAccess)
	return router
}

func setupCreatorRouter(svc Service, isCreator bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", int64(3))
		c.Set("is_creator", isCreator)
		c.Next()
	})
	creator := router.Group("/creator")
	creator.Use(auth.RequireCreator())
	creator.GET("/sales", h.Sales)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestConfirmHandlerSuccess(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	svc.On("Confirm", mock.Anything, int64(3), "pi_1", (*int64)(nil)).
		Return(&ConfirmationResult{Kind: KindTopUp}, nil)

	w := doJSON(router, "POST", "/payments/confirm", gin.H{"payment_intent_id": "pi_1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConfirmHandlerMissingRef(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	w := doJSON(router, "POST", "/payments/confirm", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"Gateway unavailable", ErrGatewayUnavailable, http.StatusServiceUnavailable},
		{"Payment not succeeded", ErrPaymentNotSucceeded, http.StatusPaymentRequired},
		{"Already applied", ErrPaymentAlreadyApplied, http.StatusConflict},
		{"Already purchased", ErrAlreadyPurchased, http.StatusConflict},
		{"Self purchase", ErrSelfPurchase, http.StatusBadRequest},
		{"Not exclusive", ErrNotExclusive, http.StatusBadRequest},
		{"Post not found", post.ErrPostNotFound, http.StatusNotFound},
		{"Unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			router := setupRouter(svc)

			svc.On("Confirm", mock.Anything, int64(3), "pi_1", (*int64)(nil)).Return(nil, tt.err)

			w := doJSON(router, "POST", "/payments/confirm", gin.H{"payment_intent_id": "pi_1"})
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestWalletPurchaseHandlerInsufficientBalance(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	svc.On("PurchaseWithWallet", mock.Anything, int64(3), int64(1)).
		Return(nil, wallet.ErrInsufficientBalance)

	w := doJSON(router, "POST", "/payments/wallet-purchase", gin.H{"post_id": 1})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestCheckAccessHandler(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	p := decimal.RequireFromString("4.99")
	svc.On("CheckAccess", mock.Anything, int64(3), int64(1)).
		Return(&AccessResult{HasAccess: false, Price: &p}, nil)

	w := doJSON(router, "GET", "/posts/1/access", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body AccessResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.HasAccess)
	assert.NotNil(t, body.Price)
}

func TestCheckAccessHandlerBadID(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	w := doJSON(router, "GET", "/posts/abc/access", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalesHandler(t *testing.T) {
	svc := new(MockService)
	router := setupCreatorRouter(svc, true)

	svc.On("SalesHistory", mock.Anything, int64(3)).
		Return([]Purchase{{ID: 1, UserID: 5, PostID: 7}}, nil)

	w := doJSON(router, "GET", "/creator/sales", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSalesHandlerRequiresCreator(t *testing.T) {
	svc := new(MockService)
	router := setupCreatorRouter(svc, false)

	w := doJSON(router, "GET", "/creator/sales", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "SalesHistory", mock.Anything, mock.Anything)
}

func TestTopUpIntentHandler(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc)

	amount := decimal.RequireFromString("10.00")
	svc.On("CreateTopUpIntent", mock.Anything, int64(3), amount).
		Return(&IntentResponse{PaymentIntentID: "pi_1", ClientSecret: "cs_1", Amount: amount}, nil)

	w := doJSON(router, "POST", "/payments/topup-intent", gin.H{"amount": "10.00"})
	assert.Equal(t, http.StatusOK, w.Code)
}
