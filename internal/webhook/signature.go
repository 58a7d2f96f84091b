package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks the provider's hex HMAC-SHA256 signature over the
// raw request body.
//
// Returns true when no signing key is configured: verification is opt-in,
// matching the provider's webhook setup where signing may be disabled.
// A configured key with a bad or missing signature fails closed.
func VerifySignature(body []byte, signature, signingKey string) bool {
	if signingKey == "" {
		return true
	}

	mac := hmac.New(sha256.New, []byte(signingKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
