package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// =====================================================
// RAZORPAY SIGNATURE
// =====================================================

// GenerateSignature = hex(HMAC_SHA256(secret, orderID + "|" + paymentID))
func GenerateSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature so sánh constant-time
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	expected := GenerateSignature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
