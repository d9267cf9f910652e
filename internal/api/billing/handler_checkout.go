package billing

import (
	"net/http"

	"billing-app/config"
	"billing-app/internal/infra/stripeclient"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v75"
)

type Handler struct {
	cfg    *config.Config
	stripe stripeclient.Client
	logger zerolog.Logger
}

func NewHandler(cfg *config.Config, stripe stripeclient.Client, logger zerolog.Logger) *Handler {
	return &Handler{cfg: cfg, stripe: stripe, logger: logger}
}

type checkoutRequest struct {
	PriceID  string `json:"priceId" binding:"required"`
	UserID   string `json:"userId" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Interval string `json:"interval"`
}

// CreateCheckoutSession asks Stripe for a hosted subscription checkout.
// The metadata bag is the only channel carrying our identity through
// Stripe's state machine, so it is always attached here.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body checkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		Metadata: map[string]string{
			"userId":    body.UserID,
			"userEmail": body.Email,
			"userName":  body.Name,
			"interval":  body.Interval,
		},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(body.PriceID), Quantity: stripe.Int64(1)},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(h.cfg.StripeSuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(h.cfg.StripeCancelURL),
		CustomerEmail:     stripe.String(body.Email),
		ClientReferenceID: stripe.String(body.UserID),
	}

	s, err := h.stripe.CreateCheckoutSession(params)
	if err != nil {
		h.logger.Error().Err(err).Str("price_id", body.PriceID).Msg("error creating stripe checkout session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID})
}
