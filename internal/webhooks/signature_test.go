package webhooks

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerifyKiwifySignature(t *testing.T) {
	body := []byte(`{"order_status":"paid"}`)
	secret := "kiwify-secret"

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, verifyKiwifySignature(body, secret, sig))
	assert.False(t, verifyKiwifySignature(body, secret, "deadbeef"))
	assert.False(t, verifyKiwifySignature([]byte(`{"tampered":true}`), secret, sig))
	assert.False(t, verifyKiwifySignature(body, "other-secret", sig))
}

func stripeHeader(body []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyStripeSignature(t *testing.T) {
	body := []byte(`{"type":"payment_intent.succeeded"}`)
	secret := "whsec_test"
	now := time.Now()

	assert.True(t, verifyStripeSignature(body, stripeHeader(body, secret, now), secret, now))
	assert.False(t, verifyStripeSignature(body, stripeHeader(body, "wrong", now), secret, now))
	assert.False(t, verifyStripeSignature([]byte("tampered"), stripeHeader(body, secret, now), secret, now))
	assert.False(t, verifyStripeSignature(body, "", secret, now))
	assert.False(t, verifyStripeSignature(body, stripeHeader(body, secret, now), "", now))
}

func TestVerifyStripeSignatureTolerance(t *testing.T) {
	body := []byte(`{}`)
	secret := "whsec_test"
	now := time.Now()

	stale := now.Add(-10 * time.Minute)
	assert.False(t, verifyStripeSignature(body, stripeHeader(body, secret, stale), secret, now))

	recent := now.Add(-2 * time.Minute)
	assert.True(t, verifyStripeSignature(body, stripeHeader(body, secret, recent), secret, now))
}

func TestClassifyKiwifyEvent(t *testing.T) {
	assert.Equal(t, KiwifyGeneratedBoleto, classifyKiwifyEvent(kiwifyOrder{
		OrderStatus: "waiting_payment", PaymentMethod: "boleto",
	}))
	assert.Equal(t, KiwifyGeneratedPix, classifyKiwifyEvent(kiwifyOrder{
		OrderStatus: "waiting_payment", PaymentMethod: "pix",
	}))
	assert.Equal(t, KiwifyPurchaseApproved, classifyKiwifyEvent(kiwifyOrder{
		OrderStatus: "paid", ApprovedDate: "2024-03-01T10:00:00Z",
	}))
	assert.Equal(t, KiwifyRefund, classifyKiwifyEvent(kiwifyOrder{OrderStatus: "refunded"}))
	assert.Equal(t, KiwifyChargeback, classifyKiwifyEvent(kiwifyOrder{OrderStatus: "chargedback"}))

	renewed := kiwifyOrder{OrderStatus: "paid"}
	renewed.Subscription.Status = "active"
	assert.Equal(t, KiwifySubscriptionRenewed, classifyKiwifyEvent(renewed))
}
