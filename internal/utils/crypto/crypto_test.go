package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"order_ref":"ord_123","status":"succeeded"}`)
	secret := "whsec_test"

	sig := ComputeWebhookSignature(body, secret)
	assert.True(t, VerifyWebhookSignature(body, sig, secret))
}

func TestVerifyWebhookSignatureRejectsTampering(t *testing.T) {
	body := []byte(`{"order_ref":"ord_123","status":"succeeded"}`)
	secret := "whsec_test"
	sig := ComputeWebhookSignature(body, secret)

	tampered := []byte(`{"order_ref":"ord_999","status":"succeeded"}`)
	assert.False(t, VerifyWebhookSignature(tampered, sig, secret))
	assert.False(t, VerifyWebhookSignature(body, sig, "other-secret"))
	assert.False(t, VerifyWebhookSignature(body, "", secret))
	assert.False(t, VerifyWebhookSignature(body, "deadbeef", secret))
}
