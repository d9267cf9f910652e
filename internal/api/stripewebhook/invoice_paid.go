package stripewebhooks

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v75"
)

// handleInvoicePaymentSucceeded sends a receipt for a recurring payment.
// No persistence write happens on this path.
func (h *Handler) handleInvoicePaymentSucceeded(invoice *stripe.Invoice) error {
	if invoice.Subscription == nil || invoice.Subscription.ID == "" {
		return errors.New("invoice missing subscription")
	}
	if invoice.Customer == nil || invoice.Customer.ID == "" {
		return errors.New("invoice missing customer")
	}

	sub, err := h.stripe.GetSubscription(invoice.Subscription.ID, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch subscription %s: %w", invoice.Subscription.ID, err)
	}
	cust, err := h.stripe.GetCustomer(invoice.Customer.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch customer %s: %w", invoice.Customer.ID, err)
	}

	amount := float64(invoice.AmountPaid) / 100

	plan := "Pro (Test)"
	if sub.Items != nil && len(sub.Items.Data) > 0 &&
		sub.Items.Data[0].Price != nil && sub.Items.Data[0].Price.Livemode {
		plan = "Pro"
	}

	name := cust.Name
	if name == "" {
		name = emailLocalPart(cust.Email)
	}

	h.sender.SendTransactionEmail(cust.Email, name, amount, plan)
	return nil
}
