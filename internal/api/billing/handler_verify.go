package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VerifySession returns a sanitized projection of a checkout session for
// client-side polling after the redirect back from Stripe.
func (h *Handler) VerifySession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id parameter"})
		return
	}

	s, err := h.stripe.GetCheckoutSession(sessionID, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("error retrieving session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving session: " + err.Error()})
		return
	}

	subID := ""
	if s.Subscription != nil {
		subID = s.Subscription.ID
	}
	custID := ""
	if s.Customer != nil {
		custID = s.Customer.ID
	}

	subType, subValue := refProjection(subID)
	custType, custValue := refProjection(custID)

	metadata := s.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                 s.ID,
		"object":             s.Object,
		"subscription_type":  subType,
		"subscription_value": subValue,
		"customer_type":      custType,
		"customer_value":     custValue,
		"payment_status":     s.PaymentStatus,
		"metadata":           metadata,
	})
}

// refProjection reports an expandable reference in the typeof/value shape
// clients consume: the id string when present, "undefined" with a null
// value when not.
func refProjection(id string) (string, interface{}) {
	if id == "" {
		return "undefined", nil
	}
	return "string", id
}
