package storefront

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/zencartio/zencart/internal/app"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	visitorCookie     = "zencart_visitor"
	contextVisitorKey = "zencart_visitor_id"
)

var (
	ok   = webserver.OK
	fail = webserver.Fail
)

// Handler serves the public storefront API.
type Handler struct {
	app      app.AppContext
	loader   *Loader
	carts    *CartStore
	limiters *limiterRegistry
}

// InitRouter wires the public storefront routes.
func InitRouter(appctx app.AppContext, carts *CartStore) *Handler {
	h := &Handler{
		app:      appctx,
		loader:   NewLoader(appctx.DB()),
		carts:    carts,
		limiters: newLimiterRegistry(),
	}
	webserver.PubGET("/s/:slug", h.getStore)
	webserver.PubGET("/s/:slug/items/:id", h.getItem)
	webserver.PubGET("/s/:slug/cart", h.getCart)
	webserver.PubPOST("/s/:slug/cart/items", h.addCartItem)
	webserver.PubPUT("/s/:slug/cart/items/:lineId", h.setCartItemQuantity)
	webserver.PubDELETE("/s/:slug/cart/items/:lineId", h.removeCartItem)
	webserver.PubDELETE("/s/:slug/cart", h.clearCart)
	webserver.PubPOST("/s/:slug/checkout", h.checkout)
	webserver.PubGET("/sitemap.xml", h.sitemap)
	webserver.PubGET("/", h.tenantHome)
	return h
}

// tenantHome serves the storefront when the request arrives on a tenant
// subdomain (acme.zencart.io -> slug "acme").
func (h *Handler) tenantHome(c echo.Context) error {
	slug := SubdomainSlug(c.Request().Host, h.app.Config().Storefront.RootDomain)
	if slug == "" {
		return fail(c, http.StatusNotFound, "STORE_NOT_FOUND", "store not found")
	}
	view, err := h.loader.LoadBySlug(c.Request().Context(), slug)
	if err != nil {
		return h.storeError(c, err)
	}
	return ok(c, view)
}

func (h *Handler) getStore(c echo.Context) error {
	view, err := h.loader.LoadBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.storeError(c, err)
	}
	return ok(c, view)
}

func (h *Handler) getItem(c echo.Context) error {
	view, err := h.loader.LoadBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.storeError(c, err)
	}
	item, err := h.loader.FindItem(c.Request().Context(), view.Store.ID, cast.ToInt64(c.Param("id")))
	if err != nil {
		return h.storeError(c, err)
	}
	return ok(c, item)
}

func (h *Handler) getCart(c echo.Context) error {
	cart, err := h.visitorCart(c)
	if err != nil {
		return h.cartError(c, err)
	}
	return ok(c, map[string]interface{}{
		"lines":    cart.Lines(),
		"subtotal": cart.Subtotal(),
	})
}

type addItemForm struct {
	ItemID         int64  `json:"item_id,string" form:"item_id"`
	Quantity       int64  `json:"quantity" form:"quantity"`
	Note           string `json:"note" form:"note"`
	Customizations []struct {
		ID       int64 `json:"id,string" form:"id"`
		Quantity int64 `json:"quantity" form:"quantity"`
	} `json:"customizations" form:"customizations"`
}

// addCartItem snapshots the item's current name and prices into a new
// cart line, so later catalog edits do not mutate carts in flight.
func (h *Handler) addCartItem(c echo.Context) error {
	view, err := h.loader.LoadBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.storeError(c, err)
	}
	form := new(addItemForm)
	if err := c.Bind(form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	if form.Quantity <= 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION", "quantity must be positive")
	}
	item, err := h.loader.FindItem(c.Request().Context(), view.Store.ID, form.ItemID)
	if err != nil {
		return h.storeError(c, err)
	}

	chosen, msg := resolveCustomizations(item, form)
	if msg != "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", msg)
	}

	cart, err := h.visitorCart(c)
	if err != nil {
		return h.cartError(c, err)
	}
	lineID, err := cart.Add(CartLine{
		ItemID:         item.ID,
		Name:           item.Name,
		UnitPrice:      item.Price,
		Quantity:       form.Quantity,
		Note:           form.Note,
		Customizations: chosen,
	})
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", err.Error())
	}
	return ok(c, map[string]interface{}{
		"line_id":  lineID,
		"subtotal": cart.Subtotal(),
	})
}

func (h *Handler) setCartItemQuantity(c echo.Context) error {
	form := struct {
		Quantity int64 `json:"quantity" form:"quantity"`
	}{}
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	cart, err := h.visitorCart(c)
	if err != nil {
		return h.cartError(c, err)
	}
	if err := cart.SetQuantity(c.Param("lineId"), form.Quantity); err != nil {
		if err == ErrLineNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "cart line not found")
		}
		return fail(c, http.StatusBadRequest, "VALIDATION", err.Error())
	}
	return ok(c, map[string]interface{}{"subtotal": cart.Subtotal()})
}

func (h *Handler) removeCartItem(c echo.Context) error {
	cart, err := h.visitorCart(c)
	if err != nil {
		return h.cartError(c, err)
	}
	if err := cart.Remove(c.Param("lineId")); err != nil {
		if err == ErrLineNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "cart line not found")
		}
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not update cart")
	}
	return ok(c, map[string]interface{}{"subtotal": cart.Subtotal()})
}

func (h *Handler) clearCart(c echo.Context) error {
	cart, err := h.visitorCart(c)
	if err != nil {
		return h.cartError(c, err)
	}
	if err := cart.Clear(); err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not clear cart")
	}
	return ok(c, map[string]interface{}{"subtotal": int64(0)})
}

type checkoutForm struct {
	UnitID int64 `json:"unit_id,string" form:"unit_id"`
	OrderDetails
}

// checkout validates the order against the availability gate and returns
// the wa.me deep link. The cart survives checkout; shoppers often come
// back to adjust the order before sending it.
func (h *Handler) checkout(c echo.Context) error {
	visitor := h.visitorID(c)
	perMin := h.app.Config().Storefront.CheckoutRatePerMin
	if !h.limiters.allow(visitor, perMin, time.Now()) {
		return fail(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many checkout attempts")
	}
	view, err := h.loader.LoadBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.storeError(c, err)
	}
	if !view.Store.AcceptsOrdersOnWhatsApp {
		return fail(c, http.StatusConflict, "STORE_CLOSED", "store does not accept WhatsApp orders")
	}

	form := new(checkoutForm)
	if err := c.Bind(form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	unit := findUnit(view.Units, form.UnitID)
	if unit == nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "unknown unit")
	}

	now := time.Now()
	if GateCheckout(&view.Store, unit, now) == ClosedBlocked {
		return fail(c, http.StatusConflict, "STORE_CLOSED", "store is closed right now")
	}

	cart, err := h.carts.Cart(visitor)
	if err != nil {
		return h.cartError(c, err)
	}
	order, err := BuildOrder(cart.Lines(), form.OrderDetails, unit.Phone,
		h.app.Config().Storefront.CountryCode)
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", err.Error())
	}

	metrics.CounterInc(metrics.MetricCheckoutLinks)
	zap.L().Info("checkout link generated",
		zap.String("slug", view.Store.Slug),
		zap.Int64("subtotal", order.Subtotal),
		zap.Int("lines", len(order.Lines)),
	)
	return ok(c, map[string]interface{}{
		"link":     order.WhatsAppLink(),
		"message":  order.Message(),
		"subtotal": order.Subtotal,
	})
}

func (h *Handler) storeError(c echo.Context, err error) error {
	switch err {
	case ErrStoreNotFound:
		return fail(c, http.StatusNotFound, "STORE_NOT_FOUND", "store not found")
	case ErrItemNotFound:
		return fail(c, http.StatusNotFound, "NOT_FOUND", "item not found")
	default:
		zap.S().Errorf("storefront query failed: %s", err)
		return fail(c, http.StatusInternalServerError, "INTERNAL", "storefront unavailable")
	}
}

// visitorID reads or assigns the anonymous visitor cookie keying the cart.
// The resolved id is cached on the request context so repeated calls within
// one request always agree, even before the browser echoes the cookie back.
func (h *Handler) visitorID(c echo.Context) string {
	if id, found := c.Get(contextVisitorKey).(string); found && id != "" {
		return id
	}
	if cookie, err := c.Cookie(visitorCookie); err == nil && cookie.Value != "" {
		c.Set(contextVisitorKey, cookie.Value)
		return cookie.Value
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   365 * 24 * 3600,
		HttpOnly: true,
	})
	c.Set(contextVisitorKey, id)
	return id
}

func (h *Handler) visitorCart(c echo.Context) (*Cart, error) {
	return h.carts.Cart(h.visitorID(c))
}

func (h *Handler) cartError(c echo.Context, err error) error {
	zap.S().Errorf("cart store failure: %s", err)
	return fail(c, http.StatusInternalServerError, "INTERNAL", "cart unavailable")
}

const (
	// limiterIdleTTL is how long an idle visitor keeps its limiter.
	limiterIdleTTL = time.Hour
	// limiterSweepSize triggers a sweep of idle entries so the registry
	// cannot grow without bound over the process lifetime.
	limiterSweepSize = 1024
)

type visitorLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// limiterRegistry tracks one rate limiter per visitor, evicting visitors
// not seen within limiterIdleTTL once the registry grows large.
type limiterRegistry struct {
	mu      sync.Mutex
	entries map[string]*visitorLimiter
}

func newLimiterRegistry() *limiterRegistry {
	return &limiterRegistry{entries: make(map[string]*visitorLimiter)}
}

// allow enforces a perMin rate for the visitor. perMin <= 0 disables the
// limit entirely.
func (r *limiterRegistry) allow(visitorID string, perMin int, now time.Time) bool {
	if perMin <= 0 {
		return true
	}
	r.mu.Lock()
	if len(r.entries) >= limiterSweepSize {
		for id, v := range r.entries {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(r.entries, id)
			}
		}
	}
	v, found := r.entries[visitorID]
	if !found {
		v = &visitorLimiter{
			lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin),
		}
		r.entries[visitorID] = v
	}
	v.lastSeen = now
	r.mu.Unlock()
	return v.lim.Allow()
}

func findUnit(units []domain.Unit, id int64) *domain.Unit {
	for i := range units {
		if units[i].ID == id {
			return &units[i]
		}
	}
	return nil
}

// resolveCustomizations maps the chosen add-on ids to price snapshots and
// enforces each group's min/max selection bounds.
func resolveCustomizations(item *domain.Item, form *addItemForm) ([]ChosenCustomization, string) {
	type custInfo struct {
		name       string
		price      int64
		categoryID int64
	}
	known := make(map[int64]custInfo)
	for _, cc := range item.CustomizationCategories {
		for _, ci := range cc.Items {
			known[ci.ID] = custInfo{name: ci.Name, price: ci.Price, categoryID: cc.ID}
		}
	}

	chosen := make([]ChosenCustomization, 0, len(form.Customizations))
	perCategory := make(map[int64]int64)
	for _, sel := range form.Customizations {
		info, found := known[sel.ID]
		if !found {
			return nil, "unknown customization"
		}
		if sel.Quantity <= 0 {
			return nil, "customization quantity must be positive"
		}
		chosen = append(chosen, ChosenCustomization{
			ID:       sel.ID,
			Name:     info.name,
			Price:    info.price,
			Quantity: sel.Quantity,
		})
		perCategory[info.categoryID] += sel.Quantity
	}

	for _, cc := range item.CustomizationCategories {
		count := perCategory[cc.ID]
		if cc.MinRequired > 0 && count < int64(cc.MinRequired) {
			return nil, "too few selections for " + cc.Name
		}
		if cc.MaxAllowed > 0 && count > int64(cc.MaxAllowed) {
			return nil, "too many selections for " + cc.Name
		}
	}
	return chosen, ""
}
