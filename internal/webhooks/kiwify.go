package webhooks

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/common"
	"go.uber.org/zap"
)

// Kiwify event names as recorded in billing_event rows.
const (
	KiwifyGeneratedBoleto       = "KIWIFY_GENERATED_BOLETO"
	KiwifyGeneratedPix          = "KIWIFY_GENERATED_PIX"
	KiwifyAbandonedCart         = "KIWIFY_ABANDONED_CART"
	KiwifyPurchaseDeclined      = "KIWIFY_PURCHASE_DECLINED"
	KiwifyPurchaseApproved      = "KIWIFY_PURCHASE_APPROVED"
	KiwifyRefund                = "KIWIFY_REFUND"
	KiwifyChargeback            = "KIWIFY_CHARGEBACK"
	KiwifySubscriptionDelayed   = "KIWIFY_SUBSCRIPTION_DELAYED"
	KiwifySubscriptionRenewed   = "KIWIFY_SUBSCRIPTION_RENEWED"
	KiwifySubscriptionCancelled = "KIWIFY_SUBSCRIPTION_CANCELLED"
)

// kiwifyOrder is the subset of the webhook payload we care about;
// everything else stays in the raw payload column.
type kiwifyOrder struct {
	OrderStatus   string `mapstructure:"order_status"`
	PaymentMethod string `mapstructure:"payment_method"`
	Status        string `mapstructure:"status"`
	ApprovedDate  string `mapstructure:"approved_date"`
	Customer      struct {
		FullName string `mapstructure:"full_name"`
		Email    string `mapstructure:"email"`
	} `mapstructure:"Customer"`
	Subscription struct {
		Status string `mapstructure:"status"`
	} `mapstructure:"Subscription"`
}

// handleKiwify verifies the HMAC-SHA1 signature passed as a query
// parameter, classifies the event and provisions access on approved
// purchases.
func (h *Handler) handleKiwify(c echo.Context) error {
	signature := c.QueryParam("signature")
	if signature == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing signature"})
	}
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	if !verifyKiwifySignature(raw, h.app.Config().Billing.KiwifyToken, signature) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
	}

	var body map[string]interface{}
	if err := webhookJSON.Unmarshal(raw, &body); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	var order kiwifyOrder
	if err := mapstructure.Decode(body, &order); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	event := classifyKiwifyEvent(order)
	h.recordEvent(c, domain.BillingProviderKiwify, event, order.Customer.FullName,
		order.Customer.Email, string(raw))

	switch event {
	case KiwifyPurchaseApproved:
		h.provisionOperator(c, order.Customer.Email, order.Customer.FullName)
	case KiwifyRefund, KiwifyChargeback, KiwifySubscriptionCancelled:
		zap.S().Infof("kiwify %s for %s", event, order.Customer.Email)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func verifyKiwifySignature(body []byte, secret, signature string) bool {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func classifyKiwifyEvent(o kiwifyOrder) string {
	switch {
	case o.OrderStatus == "waiting_payment" && o.PaymentMethod == "boleto":
		return KiwifyGeneratedBoleto
	case o.OrderStatus == "waiting_payment" && o.PaymentMethod == "pix":
		return KiwifyGeneratedPix
	case o.Status == "abandoned":
		return KiwifyAbandonedCart
	case o.OrderStatus == "refused" && o.PaymentMethod == "credit_card":
		return KiwifyPurchaseDeclined
	case o.OrderStatus == "paid" && o.ApprovedDate != "":
		return KiwifyPurchaseApproved
	case o.OrderStatus == "refunded":
		return KiwifyRefund
	case o.OrderStatus == "chargedback":
		return KiwifyChargeback
	case o.Subscription.Status == "waiting_payment":
		return KiwifySubscriptionDelayed
	case o.OrderStatus == "paid" && o.Subscription.Status == "active":
		return KiwifySubscriptionRenewed
	default:
		return KiwifySubscriptionCancelled
	}
}

// provisionOperator creates the operator account for a paying customer
// and emails an onboarding code. Existing accounts are left alone.
func (h *Handler) provisionOperator(c echo.Context, email, fullName string) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return
	}
	db := webserver.GetDB(c)
	var count int64
	db.Model(&domain.SysOpr{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}
	opr := domain.SysOpr{
		ID:        common.UUIDint64(),
		Realname:  fullName,
		Email:     email,
		Username:  email,
		Level:     "operator",
		Status:    "enabled",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(&opr).Error; err != nil {
		zap.S().Errorf("webhook operator provisioning failed for %s: %s", email, err)
		return
	}
	h.sendOnboardingCode(c, email)
}
