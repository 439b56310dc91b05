package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/zencartio/zencart/internal/app"
	"github.com/zencartio/zencart/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	SessionName   = "zencart_session"
	SessionOprKey = "opr_id"
	ContextAppKey = "zencart_app"
	ContextOprKey = "zencart_opr"
)

type WebServer struct {
	app  app.AppContext
	root *echo.Echo
	api  *echo.Group
	pub  *echo.Group
}

var server *WebServer

// Init builds the echo server with session, JWT and logging middleware.
// Route registration happens through the ApiXXX/PubXXX helpers below.
func Init(appctx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = &JsoniterSerializer{}

	secret := []byte(appctx.Config().Web.Secret)

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore(secret)))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextAppKey, appctx)
			return next(c)
		}
	})
	e.Use(requestLogger())

	s := &WebServer{app: appctx, root: e}
	s.pub = e.Group("")

	// Admin API: a valid session wins; otherwise a Bearer token is required.
	s.api = e.Group("/api")
	s.api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: secret,
		Skipper: func(c echo.Context) bool {
			return sessionOprID(c) != 0
		},
	}))
	s.api.Use(resolveOperator())

	server = s
	return s
}

// Start runs the server until ctx is cancelled.
func (s *WebServer) Start(ctx context.Context) error {
	cfg := s.app.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.root.Shutdown(shutdownCtx)
	}()
	zap.S().Infof("web server listening on %s", addr)
	err := s.root.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Echo exposes the underlying engine (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			metrics.CounterInc(metrics.MetricHTTPRequests)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return err
		}
	}
}

func sessionOprID(c echo.Context) int64 {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return 0
	}
	id, _ := sess.Values[SessionOprKey].(int64)
	return id
}

// resolveOperator loads the operator id from the session or the verified
// JWT claims into the request context.
func resolveOperator() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := sessionOprID(c); id != 0 {
				c.Set(ContextOprKey, id)
				return next(c)
			}
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			sub, _ := claims["sub"].(string)
			var id int64
			_, _ = fmt.Sscan(sub, &id)
			if id == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}
			c.Set(ContextOprKey, id)
			return next(c)
		}
	}
}

// GetApp returns the application context stored by the middleware.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(ContextAppKey).(app.AppContext)
}

// GetDB returns the request-scoped gorm handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB().WithContext(c.Request().Context())
}

// CurrentOprID returns the authenticated operator id, 0 when anonymous.
func CurrentOprID(c echo.Context) int64 {
	id, _ := c.Get(ContextOprKey).(int64)
	return id
}

// EstablishSession stores the operator id in the session cookie.
func EstablishSession(c echo.Context, oprID int64) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
	}
	sess.Values[SessionOprKey] = oprID
	return sess.Save(c.Request(), c.Response())
}

// ClearSession signs the operator out.
func ClearSession(c echo.Context) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}
	sess.Options = &sessions.Options{Path: "/", MaxAge: -1}
	delete(sess.Values, SessionOprKey)
	return sess.Save(c.Request(), c.Response())
}
