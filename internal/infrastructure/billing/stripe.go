// Package billing implements the payment-gateway port on Stripe.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/subscription"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/aulahub/lms-platform/internal/core/ports"
)

// Gateway wraps the Stripe SDK behind ports.BillingGateway.
type Gateway struct {
	webhookSecret string
}

func NewGateway(secretKey, webhookSecret string) *Gateway {
	stripe.Key = secretKey
	return &Gateway{webhookSecret: webhookSecret}
}

// CreateCheckoutSession builds a hosted subscription checkout and returns
// its redirect URL. CustomerID takes precedence; otherwise Stripe collects
// (or is seeded with) the email.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, params ports.CheckoutParams) (string, error) {
	cfg := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(params.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
	}
	if params.UserID != "" {
		cfg.Params.Metadata = map[string]string{"userId": params.UserID}
	}
	if params.CustomerID != "" {
		cfg.Customer = stripe.String(params.CustomerID)
	} else if params.CustomerEmail != "" {
		cfg.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	cfg.Context = ctx

	sess, err := session.New(cfg)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// GetSubscription retrieves the gateway's view of a subscription.
func (g *Gateway) GetSubscription(ctx context.Context, subscriptionID string) (*ports.SubscriptionInfo, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := subscription.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &ports.SubscriptionInfo{
		ID:               sub.ID,
		Status:           string(sub.Status),
		CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
	}, nil
}

// VerifyEvent checks the webhook signature and parses the event. The raw
// body must be exactly as received; any re-serialization breaks the
// signature.
func (g *Gateway) VerifyEvent(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("verify webhook signature: %w", err)
	}
	return event, nil
}
