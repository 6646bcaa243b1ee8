package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrStaleWebhook      = errors.New("webhook timestamp outside tolerance")
	ErrMalformedHeader   = errors.New("malformed signature header")
)

// webhookTolerance bounds replay of captured webhook payloads.
const webhookTolerance = 5 * time.Minute

// razorpaySignature recomputes the checkout signature: HMAC-SHA256 over
// "orderID|paymentID" keyed with the key secret, hex encoded.
func razorpaySignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyRazorpaySignature reports whether the provided signature matches the
// recomputed one. Comparison is constant time; a mismatch is a hard rejection.
func VerifyRazorpaySignature(secret, orderID, paymentID, signature string) bool {
	expected := razorpaySignature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyStripeSignature checks a "t=<unix>,v1=<hex>" webhook signature header
// against HMAC-SHA256(secret, "<t>.<payload>") within the replay tolerance.
func VerifyStripeSignature(secret string, payload []byte, header string, now time.Time) error {
	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return ErrMalformedHeader
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return ErrMalformedHeader
	}

	sent := time.Unix(timestamp, 0)
	if now.Sub(sent) > webhookTolerance || sent.Sub(now) > webhookTolerance {
		return ErrStaleWebhook
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}

	return ErrSignatureMismatch
}
