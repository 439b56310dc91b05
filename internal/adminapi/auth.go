package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"
	"github.com/zencartio/zencart/config"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/common"
	"github.com/zencartio/zencart/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

func registerAuthRoutes() {
	webserver.PubPOST("/auth/login", sendLoginCode)
	webserver.PubPOST("/auth/verify", verifyLoginCode)
	webserver.PubGET("/auth/magic-link", loginByMagicLink)
	webserver.PubPOST("/auth/password", loginByPassword)
	webserver.PubPOST("/auth/onboarding", onboardOperator)
	webserver.ApiPOST("/auth/logout", logout)
	webserver.ApiGET("/auth/profile", getProfile)
}

// sendLoginCode emails a one-time code plus a magic link. The response is
// the same whether or not the account exists, so addresses can't be probed.
func sendLoginCode(c echo.Context) error {
	form := struct {
		Email string `json:"email" form:"email"`
	}{}
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(form.Email))
	if email == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "email is required")
	}

	app := webserver.GetApp(c)
	var opr domain.SysOpr
	if err := getDB(c).Where("email = ?", email).First(&opr).Error; err != nil {
		return okMsg(c, "if the account exists, a login code was sent")
	}

	ttl := app.GetSettingsInt64Value("storefront", "VerifyCodeTTLMinutes")
	if ttl <= 0 {
		ttl = 10
	}
	code := random.String(6, random.Numeric)
	row := domain.VerificationCode{
		ID:        common.UUIDint64(),
		Target:    email,
		Code:      code,
		Type:      domain.VerifyTypeLogin,
		ExpiresAt: time.Now().Add(time.Duration(ttl) * time.Minute),
		CreatedAt: time.Now(),
	}
	if err := getDB(c).Create(&row).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not issue login code")
	}

	link, err := magicLink(c, opr.ID, time.Duration(ttl)*time.Minute)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not issue login link")
	}
	mailCfg := app.Config().Mail
	go sendLoginMail(mailCfg, email, code, link)
	metrics.CounterInc(metrics.MetricAuthCodes)
	return okMsg(c, "if the account exists, a login code was sent")
}

func verifyLoginCode(c echo.Context) error {
	form := struct {
		Email string `json:"email" form:"email"`
		Code  string `json:"code" form:"code"`
	}{}
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(form.Email))
	codeVal := strings.TrimSpace(form.Code)
	if email == "" || codeVal == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "email and code are required")
	}

	var row domain.VerificationCode
	err := getDB(c).
		Where("target = ? and code = ? and type = ? and expires_at > ?",
			email, codeVal, domain.VerifyTypeLogin, time.Now()).
		Order("created_at desc").First(&row).Error
	if err != nil {
		return fail(c, http.StatusUnauthorized, "AUTH", "invalid or expired code")
	}
	getDB(c).Delete(&domain.VerificationCode{}, "id = ?", row.ID)

	var opr domain.SysOpr
	if err := getDB(c).Where("email = ?", email).First(&opr).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "AUTH", "invalid or expired code")
	}
	return establishLogin(c, &opr)
}

// loginByMagicLink consumes the signed token from the email link.
func loginByMagicLink(c echo.Context) error {
	tokenStr := c.QueryParam("token")
	if tokenStr == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "token is required")
	}
	secret := []byte(webserver.GetApp(c).Config().Web.Secret)
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return fail(c, http.StatusUnauthorized, "AUTH", "invalid or expired link")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fail(c, http.StatusUnauthorized, "AUTH", "invalid or expired link")
	}
	var oprID int64
	_, _ = fmt.Sscan(fmt.Sprint(claims["sub"]), &oprID)

	var opr domain.SysOpr
	if err := getDB(c).Where("id = ?", oprID).First(&opr).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "AUTH", "invalid or expired link")
	}
	return establishLogin(c, &opr)
}

// loginByPassword backs the bootstrap super operator only.
func loginByPassword(c echo.Context) error {
	form := struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}{}
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	var opr domain.SysOpr
	if err := getDB(c).Where("username = ?", form.Username).First(&opr).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "AUTH", "invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(opr.Password), []byte(form.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "AUTH", "invalid username or password")
	}
	return establishLogin(c, &opr)
}

// onboardOperator creates an operator account together with its store.
func onboardOperator(c echo.Context) error {
	form := struct {
		Email     string `json:"email" form:"email"`
		Realname  string `json:"realname" form:"realname"`
		StoreName string `json:"store_name" form:"store_name"`
		Category  string `json:"category" form:"category"`
	}{}
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(form.Email))
	storeName := strings.TrimSpace(form.StoreName)
	if email == "" || storeName == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "email and store_name are required")
	}
	slug := common.Slugify(storeName)
	if slug == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "store_name cannot be reduced to a slug")
	}

	db := getDB(c)
	var count int64
	db.Model(&domain.SysOpr{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "CONFLICT", "account already exists")
	}
	db.Model(&domain.Store{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "CONFLICT", "store name already taken")
	}

	opr := domain.SysOpr{
		ID:        common.UUIDint64(),
		Realname:  common.IfEmptyStr(form.Realname, storeName),
		Email:     email,
		Username:  email,
		Level:     "operator",
		Status:    "enabled",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	store := domain.Store{
		ID:                      common.UUIDint64(),
		OperatorID:              opr.ID,
		Slug:                    slug,
		Name:                    storeName,
		Category:                form.Category,
		LayoutType:              domain.LayoutVertical,
		IsVisible:               false,
		AcceptsOrdersOnWhatsApp: true,
		CreatedAt:               time.Now(),
		UpdatedAt:               time.Now(),
	}
	opr.StoreID = store.ID

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&opr).Error; err != nil {
			return err
		}
		return tx.Create(&store).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not create account")
	}
	zap.S().Infof("onboarded store %s (%s)", store.Name, store.Slug)
	return establishLogin(c, &opr)
}

func logout(c echo.Context) error {
	_ = webserver.ClearSession(c)
	return okMsg(c, "logged out")
}

func getProfile(c echo.Context) error {
	opr, err := currentOperator(c)
	if err != nil {
		return err
	}
	return ok(c, opr)
}

// establishLogin sets the session cookie, records last_login and returns
// a Bearer token for API clients.
func establishLogin(c echo.Context, opr *domain.SysOpr) error {
	if opr.Status != "enabled" {
		return fail(c, http.StatusForbidden, "AUTH", "operator disabled")
	}
	if err := webserver.EstablishSession(c, opr.ID); err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "session error")
	}
	getDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).
		Update("last_login", time.Now())
	recordOprLog(c, opr, "login", "")

	token, err := apiToken(c, opr.ID, 7*24*time.Hour)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "token error")
	}
	return ok(c, map[string]interface{}{
		"operator": opr,
		"token":    token,
	})
}

func signedToken(c echo.Context, oprID int64, ttl time.Duration) (string, error) {
	secret := []byte(webserver.GetApp(c).Config().Web.Secret)
	claims := jwt.MapClaims{
		"sub": fmt.Sprint(oprID),
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func apiToken(c echo.Context, oprID int64, ttl time.Duration) (string, error) {
	return signedToken(c, oprID, ttl)
}

func magicLink(c echo.Context, oprID int64, ttl time.Duration) (string, error) {
	token, err := signedToken(c, oprID, ttl)
	if err != nil {
		return "", err
	}
	base := webserver.GetApp(c).Config().Web.BaseURL
	if base == "" {
		base = "http://" + c.Request().Host
	}
	return fmt.Sprintf("%s/auth/magic-link?token=%s", strings.TrimRight(base, "/"), token), nil
}

func sendLoginMail(cfg config.MailConfig, to, code, link string) {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your login code")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Your one-time login code is <b>%s</b>.</p><p>Or click to sign in: <a href=%q>%s</a></p>",
		code, link, link))
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Passwd)
	if err := d.DialAndSend(m); err != nil {
		zap.S().Errorf("failed to send login mail to %s: %s", to, err)
	}
}
