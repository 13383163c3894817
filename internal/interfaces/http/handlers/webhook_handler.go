package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
	domainerrors "github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/errors"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/interfaces/http/response"
)

// StripeSignatureHeader carries the gateway's HMAC signature
const StripeSignatureHeader = "Stripe-Signature"

// maxWebhookBodyBytes bounds what is read before the signature is checked
const maxWebhookBodyBytes = 65536

type settlementService interface {
	HandleStripeWebhook(ctx context.Context, payload []byte, signatureHeader string) (*entities.SettlementResult, error)
}

// WebhookHandler handles payment gateway callbacks
type WebhookHandler struct {
	settlementUsecase settlementService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(settlementUsecase settlementService) *WebhookHandler {
	return &WebhookHandler{settlementUsecase: settlementUsecase}
}

// HandleStripeWebhook settles completed top-ups. The raw body is needed for signature verification.
// POST /api/v1/wallet/stripe/webhook
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader(StripeSignatureHeader)
	if signature == "" {
		response.Error(c, domainerrors.InvalidSignature("Missing Stripe-Signature header"))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	payload, err := c.GetRawData()
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Unable to read request body"))
		return
	}

	result, err := h.settlementUsecase.HandleStripeWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
