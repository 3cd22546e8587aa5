package ports

import (
	"context"
	"time"
)

// CheckoutParams configures a hosted checkout session. CustomerID takes
// precedence over CustomerEmail when both are set.
type CheckoutParams struct {
	PriceID       string
	CustomerID    string
	CustomerEmail string
	UserID        string // carried through session metadata for the webhook
	SuccessURL    string
	CancelURL     string
}

// SubscriptionInfo is the gateway's view of a subscription.
type SubscriptionInfo struct {
	ID               string
	Status           string
	CurrentPeriodEnd time.Time
}

// BillingGateway wraps the payment provider. Webhook signature verification
// lives at the transport edge; the service only sees verified event data.
type BillingGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionInfo, error)
}
