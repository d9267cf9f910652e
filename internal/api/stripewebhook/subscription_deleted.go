package stripewebhooks

import "github.com/stripe/stripe-go/v75"

// handleSubscriptionDeleted acknowledges the cancellation event without
// touching any record. Intentionally unimplemented.
// TODO: mark subscriptions.status canceled once the cancellation flow is
// specified.
func (h *Handler) handleSubscriptionDeleted(sub *stripe.Subscription) error {
	h.logger.Info().Str("subscription_id", sub.ID).Msg("subscription deleted event received, no action taken")
	return nil
}
