package gateways

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
)

// EventCheckoutSessionCompleted is the only gateway event that settles a top-up
const EventCheckoutSessionCompleted = "checkout.session.completed"

// CheckoutSessionInput describes a hosted checkout for one wallet top-up
type CheckoutSessionInput struct {
	Amount      decimal.Decimal
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	// ExpiresAt closes the checkout early; zero keeps the gateway default
	ExpiresAt time.Time
	Metadata  entities.TopUpMetadata
}

// CheckoutSession is the gateway's answer to a checkout request
type CheckoutSession struct {
	ID  string
	URL string
}

// CompletedCheckout is the payload of a checkout.session.completed event
type CompletedCheckout struct {
	SessionID     string
	PaymentStatus string
	Metadata      map[string]string
}

// WebhookEvent is a verified gateway notification
type WebhookEvent struct {
	ID       string
	Type     string
	Checkout *CompletedCheckout
}

// PaymentGateway creates checkout sessions and verifies signed notifications
type PaymentGateway interface {
	// Configured reports whether credentials are present
	Configured() bool
	CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSession, error)
	// VerifyWebhook checks the signature header against the shared secret before decoding
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
