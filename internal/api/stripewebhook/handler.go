package stripewebhooks

import (
	"encoding/json"
	"io"
	"net/http"

	"billing-app/config"
	"billing-app/internal/domain/billing"
	"billing-app/internal/infra/email"
	"billing-app/internal/infra/stripeclient"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const maxWebhookBody = 65536

// Known event types. Anything else falls through to the acknowledged
// default branch so Stripe stops redelivering it.
const (
	eventCheckoutSessionCompleted = "checkout.session.completed"
	eventInvoicePaymentSucceeded  = "invoice.payment_succeeded"
	eventSubscriptionDeleted      = "customer.subscription.deleted"
)

type Handler struct {
	cfg    *config.Config
	stripe stripeclient.Client
	repo   billing.Repository
	sender email.Sender
	logger zerolog.Logger
}

func NewHandler(cfg *config.Config, stripe stripeclient.Client, repo billing.Repository, sender email.Sender, logger zerolog.Logger) *Handler {
	return &Handler{cfg: cfg, stripe: stripe, repo: repo, sender: sender, logger: logger}
}

// HandleWebhook verifies the Stripe signature over the raw body, then
// dispatches by event type. A handler error answers 500 so Stripe
// redelivers; that redelivery is the only retry mechanism in the system.
func (h *Handler) HandleWebhook(c *gin.Context) {
	payload, err := readWebhookBody(c, maxWebhookBody)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.logger.Error().Err(err).Msg("webhook signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	switch event.Type {
	case eventCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse checkout session"})
			return
		}
		if err := h.handleCheckoutSessionCompleted(&session); err != nil {
			h.logger.Error().Err(err).Str("event_id", event.ID).Str("session_id", session.ID).
				Msg("error handling checkout.session.completed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

	case eventInvoicePaymentSucceeded:
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse invoice"})
			return
		}
		if err := h.handleInvoicePaymentSucceeded(&invoice); err != nil {
			h.logger.Error().Err(err).Str("event_id", event.ID).Str("invoice_id", invoice.ID).
				Msg("error handling invoice.payment_succeeded")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

	case eventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		if err := h.handleSubscriptionDeleted(&sub); err != nil {
			h.logger.Error().Err(err).Str("event_id", event.ID).
				Msg("error handling customer.subscription.deleted")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

	default:
		h.logger.Info().Str("type", string(event.Type)).Msg("unhandled event type")
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// readWebhookBody caps and reads the raw request body. Verification is
// computed over these exact bytes; parsing before this point would
// invalidate the signature.
func readWebhookBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
