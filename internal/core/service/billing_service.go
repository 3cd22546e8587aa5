package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

// BillingService implements checkout creation and the webhook-driven
// subscription snapshot updates. Roles never change through billing; only
// the subscription snapshot on the user document does.
type BillingService struct {
	users       ports.UserRepository
	gateway     ports.BillingGateway
	frontendURL string
	logger      zerolog.Logger
}

func NewBillingService(users ports.UserRepository, gateway ports.BillingGateway, frontendURL string, logger zerolog.Logger) *BillingService {
	return &BillingService{users: users, gateway: gateway, frontendURL: frontendURL, logger: logger}
}

// CreateCheckout builds a hosted checkout session. A known email reuses the
// stored gateway customer so renewals attach to the same subscription
// history; an unknown email lets the gateway collect it.
func (s *BillingService) CreateCheckout(ctx context.Context, priceID, email string) (string, error) {
	params := ports.CheckoutParams{
		PriceID:       priceID,
		CustomerEmail: email,
		SuccessURL:    s.frontendURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.frontendURL + "/#plans",
	}

	if email != "" {
		if user, err := s.users.FindByEmail(ctx, email); err == nil {
			params.UserID = user.ID
			if user.Subscription.CustomerID != "" {
				params.CustomerID = user.Subscription.CustomerID
				params.CustomerEmail = ""
			}
		}
	}

	return s.gateway.CreateCheckoutSession(ctx, params)
}

func (s *BillingService) HandleCheckoutCompleted(ctx context.Context, event ports.CheckoutCompletedEvent) error {
	sub, err := s.gateway.GetSubscription(ctx, event.SubscriptionID)
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, event.UserID)
	if err != nil {
		return err
	}

	user.Subscription = domain.Subscription{
		ID:               event.SubscriptionID,
		CustomerID:       event.CustomerID,
		Status:           "active",
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Str("subscription_id", event.SubscriptionID).Msg("subscription activated")
	return nil
}

func (s *BillingService) HandleInvoicePaid(ctx context.Context, event ports.InvoicePaidEvent) error {
	user, err := s.users.FindByCustomerID(ctx, event.CustomerID)
	if err != nil {
		// A renewal for a customer we never stored is not actionable.
		s.logger.Warn().Str("customer_id", event.CustomerID).Msg("invoice for unknown customer")
		return nil
	}

	user.Subscription.Status = "active"
	user.Subscription.CurrentPeriodEnd = event.PeriodEnd
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("subscription renewed")
	return nil
}
