package stripewebhooks

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const testWebhookSecret = "whsec_test"

func newWebhookRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/payments/stripe/webhook", h.HandleWebhook)
	return r
}

func signedHeader(t *testing.T, payload []byte) string {
	t.Helper()
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func postWebhook(r *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/stripe/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func eventPayload(t *testing.T, eventType string, object interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"id":   "evt_test_1",
		"type": eventType,
		"data": map[string]interface{}{"object": object},
	})
	require.NoError(t, err)
	return raw
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	repo := &fakeRepo{}
	sender := &fakeSender{ok: true}
	h := newTestHandler(&fakeStripe{}, repo, sender)
	r := newWebhookRouter(h)

	payload := eventPayload(t, "checkout.session.completed", map[string]interface{}{"id": "cs_1"})

	for name, sig := range map[string]string{
		"missing header": "",
		"garbage header": "t=1,v1=deadbeef",
	} {
		w := postWebhook(r, payload, sig)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
	assert.Nil(t, repo.upserted, "unverified events must never reach a handler")
	assert.Equal(t, 0, sender.transactionCalls)
}

func TestWebhookAcknowledgesUnknownEventType(t *testing.T) {
	repo := &fakeRepo{}
	sender := &fakeSender{ok: true}
	h := newTestHandler(&fakeStripe{}, repo, sender)
	r := newWebhookRouter(h)

	payload := eventPayload(t, "product.created", map[string]interface{}{"id": "prod_1"})
	w := postWebhook(r, payload, signedHeader(t, payload))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["received"])
	assert.Nil(t, repo.upserted)
	assert.Equal(t, 0, sender.transactionCalls)
	assert.Equal(t, 0, sender.welcomeCalls)
}

func TestWebhookProcessesCheckoutSessionCompleted(t *testing.T) {
	st := &fakeStripe{sub: activeSubscription(stripe.PriceRecurringIntervalYear)}
	repo := &fakeRepo{}
	sender := &fakeSender{ok: true}
	h := newTestHandler(st, repo, sender)
	r := newWebhookRouter(h)

	payload := eventPayload(t, "checkout.session.completed", map[string]interface{}{
		"id":           "cs_test_1",
		"object":       "checkout.session",
		"amount_total": 9900,
		"customer":     "c1",
		"subscription": "s1",
		"metadata": map[string]string{
			"userId":    "u1",
			"userEmail": "jane@example.com",
			"userName":  "Jane",
		},
	})
	w := postWebhook(r, payload, signedHeader(t, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, "u1", repo.upserted.UserID)
	assert.Equal(t, "yearly", repo.upserted.PlanID)
	assert.Equal(t, 1, sender.transactionCalls)
}

// Redelivering the identical event leaves the row in the same final state;
// notification sends are at-least-once, not deduplicated.
func TestWebhookRedeliveryIsIdempotentOnState(t *testing.T) {
	st := &fakeStripe{sub: activeSubscription(stripe.PriceRecurringIntervalYear)}
	repo := &fakeRepo{}
	sender := &fakeSender{ok: true}
	h := newTestHandler(st, repo, sender)
	r := newWebhookRouter(h)

	payload := eventPayload(t, "checkout.session.completed", map[string]interface{}{
		"id":           "cs_test_1",
		"amount_total": 9900,
		"customer":     "c1",
		"subscription": "s1",
		"metadata":     map[string]string{"userId": "u1", "userEmail": "jane@example.com"},
	})

	w := postWebhook(r, payload, signedHeader(t, payload))
	assert.Equal(t, http.StatusOK, w.Code)
	first := *repo.upserted

	repo.existing = 1 // the first delivery created the row
	w = postWebhook(r, payload, signedHeader(t, payload))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, first.UserID, repo.upserted.UserID)
	assert.Equal(t, first.PlanID, repo.upserted.PlanID)
	assert.Equal(t, first.Status, repo.upserted.Status)
	assert.Equal(t, 2, sender.transactionCalls)
	assert.Equal(t, 1, sender.welcomeCalls, "welcome only while no row existed")
}

func TestWebhookReturns500OnHandlerFailure(t *testing.T) {
	sub := activeSubscription(stripe.PriceRecurringIntervalYear)
	sub.Status = stripe.SubscriptionStatusIncomplete

	st := &fakeStripe{sub: sub}
	repo := &fakeRepo{}
	h := newTestHandler(st, repo, &fakeSender{ok: true})
	r := newWebhookRouter(h)

	payload := eventPayload(t, "checkout.session.completed", map[string]interface{}{
		"id":           "cs_test_1",
		"customer":     "c1",
		"subscription": "s1",
		"metadata":     map[string]string{"userId": "u1", "userEmail": "jane@example.com"},
	})
	w := postWebhook(r, payload, signedHeader(t, payload))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Nil(t, repo.upserted)
}

func TestWebhookSubscriptionDeletedAcknowledged(t *testing.T) {
	repo := &fakeRepo{}
	h := newTestHandler(&fakeStripe{}, repo, &fakeSender{ok: true})
	r := newWebhookRouter(h)

	payload := eventPayload(t, "customer.subscription.deleted", map[string]interface{}{
		"id":     "s1",
		"status": "canceled",
	})
	w := postWebhook(r, payload, signedHeader(t, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, repo.upserted)
}
