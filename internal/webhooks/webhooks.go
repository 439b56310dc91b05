package webhooks

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"
	"github.com/zencartio/zencart/internal/app"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/common"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var webhookJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler receives billing provider webhooks.
type Handler struct {
	app app.AppContext
}

// InitRouter wires the public webhook endpoints.
func InitRouter(appctx app.AppContext) *Handler {
	h := &Handler{app: appctx}
	webserver.PubPOST("/webhooks/kiwify", h.handleKiwify)
	webserver.PubPOST("/webhooks/stripe", h.handleStripe)
	return h
}

func (h *Handler) recordEvent(c echo.Context, provider, event, name, email, payload string) {
	err := webserver.GetDB(c).Create(&domain.BillingEvent{
		ID:        common.UUIDint64(),
		Provider:  provider,
		Name:      name,
		Email:     email,
		Event:     event,
		Payload:   payload,
		CreatedAt: time.Now(),
	}).Error
	if err != nil {
		zap.S().Errorf("failed to record %s webhook event: %s", provider, err)
	}
}

// sendOnboardingCode issues a 24h onboarding code and emails it.
func (h *Handler) sendOnboardingCode(c echo.Context, email string) {
	code := random.String(6, random.Numeric)
	err := webserver.GetDB(c).Create(&domain.VerificationCode{
		ID:        common.UUIDint64(),
		Target:    email,
		Code:      code,
		Type:      domain.VerifyTypeOnboarding,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}).Error
	if err != nil {
		zap.S().Errorf("failed to issue onboarding code for %s: %s", email, err)
		return
	}

	cfg := h.app.Config().Mail
	go func() {
		m := gomail.NewMessage()
		m.SetHeader("From", cfg.From)
		m.SetHeader("To", email)
		m.SetHeader("Subject", "Welcome! Finish setting up your store")
		m.SetBody("text/html", fmt.Sprintf(
			"<p>Your purchase is confirmed. Use code <b>%s</b> to finish creating your store.</p>", code))
		d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Passwd)
		if err := d.DialAndSend(m); err != nil {
			zap.S().Errorf("failed to send onboarding mail to %s: %s", email, err)
		}
	}()
}
