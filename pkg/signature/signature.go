// Package signature verifies payment-gateway callbacks: a hex HMAC-SHA256 of
// "orderId|paymentId" keyed with the gateway secret.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var ErrSignatureInvalid = errors.New("signature invalid")

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign returns the expected signature for an order/payment pair.
func (v *Verifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares in constant time. Hex case is ignored.
func (v *Verifier) Verify(orderID, paymentID, sig string) error {
	if orderID == "" || paymentID == "" || sig == "" {
		return ErrSignatureInvalid
	}
	expected := v.Sign(orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(sig))) {
		return ErrSignatureInvalid
	}
	return nil
}
