package service

import (
	"context"
	"testing"
	"time"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

func newBillingFixture(t *testing.T) (*BillingService, *stubUserRepo, *stubGateway) {
	t.Helper()
	users := newStubUserRepo()
	gateway := &stubGateway{checkoutURL: "https://pay.test/session"}
	svc := NewBillingService(users, gateway, "https://app.test", testLogger())
	return svc, users, gateway
}

func TestBillingService_CreateCheckout_NewCustomer(t *testing.T) {
	svc, users, gateway := newBillingFixture(t)
	users.seed(&domain.User{Username: "alice", Email: "a@example.com"})

	url, err := svc.CreateCheckout(context.Background(), "price_basic", "a@example.com")
	if err != nil {
		t.Fatalf("CreateCheckout returned error: %v", err)
	}
	if url != "https://pay.test/session" {
		t.Fatalf("unexpected url: %s", url)
	}

	params := gateway.lastCheckout
	if params.CustomerEmail != "a@example.com" {
		t.Fatalf("email not passed: %s", params.CustomerEmail)
	}
	if params.CustomerID != "" {
		t.Fatalf("no stored customer should mean no customer id")
	}
	if params.UserID == "" {
		t.Fatalf("user id must travel in metadata for the webhook")
	}
	if params.SuccessURL != "https://app.test/payment/success?session_id={CHECKOUT_SESSION_ID}" {
		t.Fatalf("unexpected success url: %s", params.SuccessURL)
	}
}

func TestBillingService_CreateCheckout_ReusesStoredCustomer(t *testing.T) {
	svc, users, gateway := newBillingFixture(t)
	users.seed(&domain.User{
		Username:     "bob",
		Email:        "b@example.com",
		Subscription: domain.Subscription{CustomerID: "cus_123"},
	})

	if _, err := svc.CreateCheckout(context.Background(), "price_basic", "b@example.com"); err != nil {
		t.Fatalf("CreateCheckout returned error: %v", err)
	}

	params := gateway.lastCheckout
	if params.CustomerID != "cus_123" {
		t.Fatalf("stored customer not reused: %s", params.CustomerID)
	}
	if params.CustomerEmail != "" {
		t.Fatalf("customer id takes precedence over email")
	}
}

func TestBillingService_HandleCheckoutCompleted_SetsSnapshot(t *testing.T) {
	svc, users, gateway := newBillingFixture(t)
	user := users.seed(&domain.User{Username: "carol", Email: "c@example.com", Role: domain.RoleUser})
	periodEnd := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	gateway.sub = &ports.SubscriptionInfo{Status: "active", CurrentPeriodEnd: periodEnd}

	err := svc.HandleCheckoutCompleted(context.Background(), ports.CheckoutCompletedEvent{
		UserID:         user.ID,
		CustomerID:     "cus_9",
		SubscriptionID: "sub_9",
	})
	if err != nil {
		t.Fatalf("HandleCheckoutCompleted returned error: %v", err)
	}

	stored, _ := users.FindByID(context.Background(), user.ID)
	if stored.Subscription.ID != "sub_9" || stored.Subscription.CustomerID != "cus_9" {
		t.Fatalf("snapshot not stored: %+v", stored.Subscription)
	}
	if stored.Subscription.Status != "active" {
		t.Fatalf("unexpected status: %s", stored.Subscription.Status)
	}
	if !stored.Subscription.CurrentPeriodEnd.Equal(periodEnd) {
		t.Fatalf("period end mismatch: %v", stored.Subscription.CurrentPeriodEnd)
	}
	// Billing never touches authorization.
	if stored.Role != domain.RoleUser {
		t.Fatalf("role must not change: %s", stored.Role)
	}
}

func TestBillingService_HandleInvoicePaid_ExtendsPeriod(t *testing.T) {
	svc, users, _ := newBillingFixture(t)
	user := users.seed(&domain.User{
		Username: "dave",
		Email:    "d@example.com",
		Subscription: domain.Subscription{
			ID:               "sub_1",
			CustomerID:       "cus_1",
			Status:           "past_due",
			CurrentPeriodEnd: time.Now().UTC(),
		},
	})

	newEnd := time.Now().UTC().Add(60 * 24 * time.Hour).Truncate(time.Second)
	err := svc.HandleInvoicePaid(context.Background(), ports.InvoicePaidEvent{
		CustomerID: "cus_1",
		PeriodEnd:  newEnd,
	})
	if err != nil {
		t.Fatalf("HandleInvoicePaid returned error: %v", err)
	}

	stored, _ := users.FindByID(context.Background(), user.ID)
	if stored.Subscription.Status != "active" {
		t.Fatalf("renewal should reactivate: %s", stored.Subscription.Status)
	}
	if !stored.Subscription.CurrentPeriodEnd.Equal(newEnd) {
		t.Fatalf("period end not extended: %v", stored.Subscription.CurrentPeriodEnd)
	}
}

func TestBillingService_HandleInvoicePaid_UnknownCustomerIgnored(t *testing.T) {
	svc, _, _ := newBillingFixture(t)

	if err := svc.HandleInvoicePaid(context.Background(), ports.InvoicePaidEvent{
		CustomerID: "cus_ghost",
		PeriodEnd:  time.Now().UTC(),
	}); err != nil {
		t.Fatalf("unknown customer must be ignored, got %v", err)
	}
}
