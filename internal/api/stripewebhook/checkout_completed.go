package stripewebhooks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"billing-app/internal/domain/billing"

	"github.com/stripe/stripe-go/v75"
)

// handleCheckoutSessionCompleted reconciles a completed checkout into the
// subscriptions and customers tables. Every precondition failure aborts
// the whole operation; partial side effects are not rolled back (Stripe's
// redelivery makes the flow at-least-once, not atomic).
func (h *Handler) handleCheckoutSessionCompleted(session *stripe.CheckoutSession) error {
	h.logger.Info().
		Str("session_id", session.ID).
		Bool("has_metadata", session.Metadata != nil).
		Bool("has_customer", session.Customer != nil).
		Bool("has_subscription", session.Subscription != nil).
		Msg("processing checkout session")

	userID := ""
	if session.Metadata != nil {
		userID = session.Metadata["userId"]
	}
	if userID == "" {
		return errors.New("missing userId in session metadata")
	}
	if session.Customer == nil || session.Customer.ID == "" {
		return errors.New("missing customer in session")
	}
	if session.Subscription == nil || session.Subscription.ID == "" {
		return errors.New("missing subscription in session")
	}

	userEmail := session.Metadata["userEmail"]
	userName := session.Metadata["userName"]
	amount := float64(session.AmountTotal) / 100

	params := &stripe.SubscriptionParams{}
	params.AddExpand("items.data.price")
	sub, err := h.stripe.GetSubscription(session.Subscription.ID, params)
	if err != nil {
		return fmt.Errorf("failed to fetch subscription %s: %w", session.Subscription.ID, err)
	}

	if sub.Status != stripe.SubscriptionStatusActive {
		return fmt.Errorf("subscription status is %s, expected active", sub.Status)
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 ||
		sub.Items.Data[0].Price == nil || sub.Items.Data[0].Price.Recurring == nil {
		return errors.New("subscription missing price information")
	}

	planType := billing.PlanTypeFromInterval(string(sub.Items.Data[0].Price.Recurring.Interval))
	planName := billing.PlanDisplayName(planType)

	// Counted before the upsert so a first subscription can be detected.
	// Read-then-write: two concurrent deliveries for the same user can
	// both see zero and both send the welcome email.
	existing, err := h.repo.CountSubscriptionsByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to check existing subscriptions: %w", err)
	}

	record := &billing.Subscription{
		UserID:               userID,
		StripeSubscriptionID: sub.ID,
		StripeCustomerID:     session.Customer.ID,
		PlanID:               planType,
		Status:               string(sub.Status),
		CurrentPeriodEnd:     time.Unix(sub.CurrentPeriodEnd, 0),
		UpdatedAt:            time.Now(),
	}
	if sub.CancelAt > 0 {
		cancelAt := time.Unix(sub.CancelAt, 0)
		record.CancelAt = &cancelAt
	}

	if err := h.repo.UpsertSubscription(record); err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	if err := h.repo.UpdateCustomerSubscription(userID, string(sub.Status), billing.TierPro); err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	name := userName
	if name == "" {
		name = emailLocalPart(userEmail)
	}

	// The Sender's boolean is intentionally not checked here: a bounced
	// receipt must not make Stripe redeliver an already-persisted event.
	h.sender.SendTransactionEmail(userEmail, name, amount, planName)

	if existing == 0 {
		h.sender.SendWelcomeEmail(userEmail, name)
	}

	return nil
}

func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
