package payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ReubenWash/reubensocials-backend/internal/auth"
	"github.com/ReubenWash/reubensocials-backend/internal/post"
	"github.com/ReubenWash/reubensocials-backend/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// writeError maps domain errors to HTTP statuses. Gateway failures are
// reported as 503 so clients know a retry is reasonable; validation
// failures are terminal 4xx.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrGatewayUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment gateway unavailable, try again"})
	case errors.Is(err, ErrPaymentNotSucceeded):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAlreadyPurchased), errors.Is(err, ErrPaymentAlreadyApplied):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrSelfPurchase), errors.Is(err, ErrNotExclusive), errors.Is(err, wallet.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, wallet.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient wallet balance"})
	case errors.Is(err, post.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment operation failed"})
	}
}

// CreateTopUpIntent godoc
// @Summary      Create a wallet top-up payment intent
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body AddFundsRequest true "Amount to add"
// @Success      200 {object} IntentResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/topup-intent [post]
func (h *Handler) CreateTopUpIntent(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount required"})
		return
	}

	resp, err := h.service.CreateTopUpIntent(c.Request.Context(), userID, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreatePurchaseIntent(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req PurchaseIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id required"})
		return
	}

	resp, err := h.service.CreatePurchaseIntent(c.Request.Context(), userID, req.PostID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Confirm godoc
// @Summary      Confirm an external payment
// @Description  Applies a succeeded payment intent: unlocks content when post_id is set, otherwise credits the wallet. Idempotent per payment intent.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body ConfirmRequest true "Payment intent reference"
// @Success      200 {object} ConfirmationResult
// @Failure      402 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/confirm [post]
func (h *Handler) Confirm(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_intent_id required"})
		return
	}

	result, err := h.service.Confirm(c.Request.Context(), userID, req.PaymentIntentID, req.PostID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) PurchaseWithWallet(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req WalletPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id required"})
		return
	}

	result, err := h.service.PurchaseWithWallet(c.Request.Context(), userID, req.PostID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) CheckAccess(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	postID, err := strconv.ParseInt(c.Param("postID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	result, err := h.service.CheckAccess(c.Request.Context(), userID, postID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) PurchaseHistory(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	purchases, err := h.service.PurchaseHistory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": purchases})
}

// Sales godoc
// @Summary      List sales of the caller's exclusive posts
// @Tags         payments
// @Produce      json
// @Success      200 {object} map[string][]Purchase
// @Failure      403 {object} api.ErrorResponse
// @Security     BearerAuth
// @Router       /creator/sales [get]
func (h *Handler) Sales(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	sales, err := h.service.SalesHistory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sales"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": sales})
}

func (h *Handler) PaymentHistory(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	payments, err := h.service.PaymentHistory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": payments})
}
