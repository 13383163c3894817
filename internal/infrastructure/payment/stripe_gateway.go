package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/config"
	domainerrors "github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/errors"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/gateways"
)

var minorUnits = decimal.NewFromInt(100)

// StripeGateway creates hosted checkout sessions and verifies Stripe webhooks
type StripeGateway struct {
	client        *client.API
	configured    bool
	webhookSecret string
}

// NewStripeGateway creates a gateway from Stripe credentials.
// Without a secret key the gateway still verifies webhooks but refuses checkouts.
func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	return newStripeGateway(cfg, nil)
}

func newStripeGateway(cfg config.StripeConfig, backends *stripe.Backends) *StripeGateway {
	sc := &client.API{}
	sc.Init(cfg.SecretKey, backends)

	return &StripeGateway{
		client:        sc,
		configured:    cfg.Configured(),
		webhookSecret: cfg.WebhookSecret,
	}
}

// Configured reports whether checkout sessions can be created
func (s *StripeGateway) Configured() bool {
	return s.configured
}

// CreateCheckoutSession opens a one-off payment checkout for a wallet top-up
func (s *StripeGateway) CreateCheckoutSession(ctx context.Context, input gateways.CheckoutSessionInput) (*gateways.CheckoutSession, error) {
	if !s.configured {
		return nil, fmt.Errorf("%w: stripe secret key is not configured", domainerrors.ErrGatewayUnavailable)
	}

	metadata, err := input.Metadata.ToMap()
	if err != nil {
		return nil, err
	}
	unitAmount, err := toMinorUnits(input.Amount)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(input.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(input.ProductName),
					},
					UnitAmount: stripe.Int64(unitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(input.SuccessURL),
		CancelURL:         stripe.String(input.CancelURL),
		ClientReferenceID: stripe.String(input.Metadata.TransactionID.String()),
	}
	if !input.ExpiresAt.IsZero() {
		params.ExpiresAt = stripe.Int64(input.ExpiresAt.Unix())
	}
	params.Context = ctx
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	cs, err := s.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create checkout session: %v", domainerrors.ErrGatewayUnavailable, err)
	}

	return &gateways.CheckoutSession{
		ID:  cs.ID,
		URL: cs.URL,
	}, nil
}

// VerifyWebhook checks the Stripe-Signature header and decodes completed checkouts
func (s *StripeGateway) VerifyWebhook(payload []byte, signatureHeader string) (*gateways.WebhookEvent, error) {
	if s.webhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook secret is not configured", domainerrors.ErrInvalidSignature)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrInvalidSignature, err)
	}

	result := &gateways.WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return result, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal checkout session: %v", domainerrors.ErrInvalidInput, err)
	}
	result.Checkout = &gateways.CompletedCheckout{
		SessionID:     cs.ID,
		PaymentStatus: string(cs.PaymentStatus),
		Metadata:      cs.Metadata,
	}
	return result, nil
}

func toMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Mul(minorUnits).Round(0)
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s does not fit the gateway amount range", domainerrors.ErrInvalidAmount, amount.String())
	}
	return minor.IntPart(), nil
}
