package storefront

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return echo.New().NewContext(req, rec), rec
}

func TestVisitorIDStableWithinRequest(t *testing.T) {
	c, rec := newTestContext(t)
	h := &Handler{}

	first := h.visitorID(c)
	require.NotEmpty(t, first)

	// A cookieless visitor gets exactly one minted id per request, so the
	// rate-limit key and the cart key always agree.
	assert.Equal(t, first, h.visitorID(c))
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestVisitorIDFromCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: visitorCookie, Value: "visitor-42"})
	c := echo.New().NewContext(req, rec)

	h := &Handler{}
	assert.Equal(t, "visitor-42", h.visitorID(c))
	assert.Equal(t, "visitor-42", h.visitorID(c))
	assert.Empty(t, rec.Result().Cookies())
}

func TestLimiterRegistryAllow(t *testing.T) {
	r := newLimiterRegistry()
	now := time.Now()

	assert.True(t, r.allow("v1", 1, now))
	assert.False(t, r.allow("v1", 1, now), "burst of one is spent")
	assert.True(t, r.allow("v2", 1, now), "visitors are limited independently")
	assert.True(t, r.allow("v1", 0, now), "non-positive rate disables the limit")
}

func TestLimiterRegistryEvictsIdleVisitors(t *testing.T) {
	r := newLimiterRegistry()
	start := time.Now()
	for i := 0; i < limiterSweepSize; i++ {
		r.allow(fmt.Sprintf("v%d", i), 60, start)
	}
	require.Len(t, r.entries, limiterSweepSize)

	// A later arrival past the idle TTL sweeps the stale entries out.
	r.allow("late", 60, start.Add(limiterIdleTTL+time.Minute))
	assert.Less(t, len(r.entries), limiterSweepSize)

	_, kept := r.entries["late"]
	assert.True(t, kept)
}
