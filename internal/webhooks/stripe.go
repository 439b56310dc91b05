package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/zencartio/zencart/internal/domain"
	"go.uber.org/zap"
)

// stripeSignatureTolerance bounds how old a signed webhook may be.
const stripeSignatureTolerance = 5 * time.Minute

type stripeEvent struct {
	Type string `mapstructure:"type"`
	Data struct {
		Object struct {
			ReceiptEmail string `mapstructure:"receipt_email"`
			CustomerName string `mapstructure:"customer_name"`
		} `mapstructure:"object"`
	} `mapstructure:"data"`
}

// handleStripe verifies the Stripe-Signature header (t=...,v1=... with
// v1 = HMAC-SHA256 of "{t}.{body}") and records the event.
func (h *Handler) handleStripe(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	header := c.Request().Header.Get("Stripe-Signature")
	secret := h.app.Config().Billing.StripeWebhookSecret
	if !verifyStripeSignature(raw, header, secret, time.Now()) {
		return c.String(http.StatusUnauthorized, "Webhook Error: signature verification failed")
	}

	var body map[string]interface{}
	if err := webhookJSON.Unmarshal(raw, &body); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	var event stripeEvent
	if err := mapstructure.Decode(body, &event); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	h.recordEvent(c, domain.BillingProviderStripe, event.Type,
		event.Data.Object.CustomerName, event.Data.Object.ReceiptEmail, string(raw))

	if event.Type == "payment_intent.succeeded" {
		zap.S().Infof("stripe payment succeeded for %s", event.Data.Object.ReceiptEmail)
		h.provisionOperator(c, event.Data.Object.ReceiptEmail, event.Data.Object.CustomerName)
	}
	return c.NoContent(http.StatusOK)
}

func verifyStripeSignature(body []byte, header, secret string, now time.Time) bool {
	if header == "" || secret == "" {
		return false
	}
	var ts int64
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, _ = strconv.ParseInt(kv[1], 10, 64)
		case "v1":
			sigs = append(sigs, kv[1])
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return false
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > stripeSignatureTolerance || age < -stripeSignatureTolerance {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	for _, sig := range sigs {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return true
		}
	}
	return false
}
