package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeWebhookSignature returns the hex HMAC-SHA256 of a payment-gateway
// callback body under the shared webhook secret.
func ComputeWebhookSignature(requestBody []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(requestBody)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyWebhookSignature checks a gateway-provided signature in constant
// time. An empty signature never verifies.
func VerifyWebhookSignature(requestBody []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	expected := ComputeWebhookSignature(requestBody, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
