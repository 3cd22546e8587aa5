package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v79"

	"github.com/aulahub/lms-platform/internal/core/ports"
)

// WebhookVerifier authenticates raw webhook payloads before they are acted
// on. Implemented by the billing gateway.
type WebhookVerifier interface {
	VerifyEvent(payload []byte, signature string) (stripe.Event, error)
}

type PaymentHandler struct {
	billingService ports.BillingService
	authService    ports.AuthService
	verifier       WebhookVerifier
	log            zerolog.Logger
}

func NewPaymentHandler(billingService ports.BillingService, authService ports.AuthService, verifier WebhookVerifier, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		billingService: billingService,
		authService:    authService,
		verifier:       verifier,
		log:            log.With().Str("component", "payment_handler").Logger(),
	}
}

type checkoutRequest struct {
	PriceID string `json:"price_id" validate:"required"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// CreateCheckout starts a hosted subscription checkout for the caller and
// returns the redirect URL.
//
// @Summary      Start a subscription checkout
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkoutRequest  true  "Plan price"
// @Success      200   {object}  checkoutResponse
// @Failure      400   {object}  map[string]string
// @Router       /payment/create-checkout-session [post]
func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	url, err := h.billingService.CreateCheckout(c.Request().Context(), req.PriceID, user.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, checkoutResponse{URL: url})
}

// Webhook receives gateway events. The raw body is verified against the
// Stripe-Signature header before anything is trusted. Unrecognized event
// types are acknowledged and ignored.
//
// @Summary      Billing webhook
// @Tags         payment
// @Accept       json
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Router       /payment/webhook [post]
func (h *PaymentHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable payload")
	}

	event, err := h.verifier.VerifyEvent(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		h.log.Warn().Err(err).Msg("webhook signature rejected")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	ctx := c.Request().Context()

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed event payload")
		}

		evt := ports.CheckoutCompletedEvent{UserID: session.Metadata["userId"]}
		if session.Customer != nil {
			evt.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			evt.SubscriptionID = session.Subscription.ID
		}

		if err := h.billingService.HandleCheckoutCompleted(ctx, evt); err != nil {
			return err
		}

	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed event payload")
		}

		evt := ports.InvoicePaidEvent{PeriodEnd: time.Unix(invoice.PeriodEnd, 0).UTC()}
		if invoice.Customer != nil {
			evt.CustomerID = invoice.Customer.ID
		}

		if err := h.billingService.HandleInvoicePaid(ctx, evt); err != nil {
			return err
		}

	default:
		h.log.Debug().Str("type", string(event.Type)).Msg("ignoring webhook event")
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "received"})
}
