package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the same way Stripe does,
// HMAC-SHA256 over "timestamp.payload"
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)

	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompletedEvent(sessionID, userID string, points int) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": %q,
				"object": "checkout.session",
				"payment_status": "paid",
				"amount_total": 999,
				"currency": "usd",
				"metadata": {"userId": %q, "points": "%d"}
			}
		}
	}`, sessionID, userID, points))
}

func TestParseWebhook(t *testing.T) {
	payload := checkoutCompletedEvent("cs_test_1", "user_1", 50)

	sess, err := ParseWebhook(payload, signPayload(payload, testWebhookSecret, time.Now()), testWebhookSecret)
	require.NoError(t, err)
	require.NotNil(t, sess)

	assert.Equal(t, "cs_test_1", sess.ID)
	assert.True(t, sess.Paid)
	assert.Equal(t, int64(999), sess.AmountTotal)
	assert.Equal(t, "user_1", sess.Metadata["userId"])
	assert.Equal(t, "50", sess.Metadata["points"])
}

func TestParseWebhookBadSignature(t *testing.T) {
	payload := checkoutCompletedEvent("cs_test_1", "user_1", 50)

	_, err := ParseWebhook(payload, signPayload(payload, "whsec_wrong", time.Now()), testWebhookSecret)
	assert.ErrorIs(t, err, ErrBadSignature)

	_, err = ParseWebhook(payload, "garbage", testWebhookSecret)
	assert.ErrorIs(t, err, ErrBadSignature)

	_, err = ParseWebhook(payload, "", testWebhookSecret)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestParseWebhookTamperedPayload(t *testing.T) {
	payload := checkoutCompletedEvent("cs_test_1", "user_1", 50)
	header := signPayload(payload, testWebhookSecret, time.Now())

	tampered := checkoutCompletedEvent("cs_test_1", "user_1", 5000)

	_, err := ParseWebhook(tampered, header, testWebhookSecret)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestParseWebhookIgnoresOtherEvents(t *testing.T) {
	payload := []byte(`{
		"id": "evt_2",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_1", "object": "payment_intent"}}
	}`)

	sess, err := ParseWebhook(payload, signPayload(payload, testWebhookSecret, time.Now()), testWebhookSecret)
	require.NoError(t, err)
	assert.Nil(t, sess)
}
