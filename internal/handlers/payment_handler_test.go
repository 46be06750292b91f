package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lexdesk/internal/config"
	"lexdesk/internal/events"
	"lexdesk/internal/services"
	"lexdesk/internal/utils/crypto"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test"

func newWebhookHandler() *PaymentHandler {
	cfg := &config.Config{}
	cfg.Payments.WebhookSecret = testWebhookSecret
	return NewPaymentHandler(nil, nil, cfg)
}

func postWebhook(h *PaymentHandler, body string, signature string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	rec := httptest.NewRecorder()
	_ = h.Webhook(e.NewContext(req, rec))
	return rec
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	h := newWebhookHandler()
	rec := postWebhook(h, `{"order_ref":"ord_1","status":"succeeded"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	h := newWebhookHandler()
	body := `{"order_ref":"ord_1","status":"succeeded"}`
	sig := crypto.ComputeWebhookSignature([]byte(body), "wrong-secret")
	rec := postWebhook(h, body, sig)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	h := newWebhookHandler()
	body := `not-json`
	sig := crypto.ComputeWebhookSignature([]byte(body), testWebhookSecret)
	rec := postWebhook(h, body, sig)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookRejectsMissingOrderRef(t *testing.T) {
	h := newWebhookHandler()
	body := `{"status":"succeeded"}`
	sig := crypto.ComputeWebhookSignature([]byte(body), testWebhookSecret)
	rec := postWebhook(h, body, sig)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookEmitsPaymentEvent(t *testing.T) {
	received := make(chan services.PaymentEvent, 1)
	events.On("payment.succeeded", func(data interface{}) {
		if ev, ok := data.(services.PaymentEvent); ok {
			received <- ev
		}
	})

	h := newWebhookHandler()
	body := `{"order_ref":"ord_42","gateway_ref":"gw_7","status":"succeeded"}`
	sig := crypto.ComputeWebhookSignature([]byte(body), testWebhookSecret)
	rec := postWebhook(h, body, sig)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case ev := <-received:
		assert.Equal(t, "ord_42", ev.OrderRef)
		assert.Equal(t, "gw_7", ev.GatewayRef)
		assert.True(t, ev.Succeeded)
	case <-time.After(2 * time.Second):
		t.Fatal("payment.succeeded was not emitted")
	}
}

func TestWebhookRoutesFailuresToFailedEvent(t *testing.T) {
	received := make(chan services.PaymentEvent, 1)
	events.On("payment.failed", func(data interface{}) {
		if ev, ok := data.(services.PaymentEvent); ok {
			received <- ev
		}
	})

	h := newWebhookHandler()
	body := `{"order_ref":"ord_43","status":"failed"}`
	sig := crypto.ComputeWebhookSignature([]byte(body), testWebhookSecret)
	rec := postWebhook(h, body, sig)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case ev := <-received:
		assert.Equal(t, "ord_43", ev.OrderRef)
		assert.False(t, ev.Succeeded)
	case <-time.After(2 * time.Second):
		t.Fatal("payment.failed was not emitted")
	}
}
