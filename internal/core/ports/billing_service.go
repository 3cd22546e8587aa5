package ports

import (
	"context"
	"time"
)

// CheckoutCompletedEvent is the verified payload of a completed checkout.
type CheckoutCompletedEvent struct {
	UserID         string
	CustomerID     string
	SubscriptionID string
}

// InvoicePaidEvent is the verified payload of a successful renewal invoice.
type InvoicePaidEvent struct {
	CustomerID string
	PeriodEnd  time.Time
}

// BillingService defines subscription billing use cases. Webhook events
// arrive already signature-verified by the transport layer.
type BillingService interface {
	// CreateCheckout returns the hosted checkout redirect URL, reusing the
	// stored gateway customer when the email maps to one.
	CreateCheckout(ctx context.Context, priceID, email string) (string, error)
	HandleCheckoutCompleted(ctx context.Context, event CheckoutCompletedEvent) error
	HandleInvoicePaid(ctx context.Context, event InvoicePaidEvent) error
}
