package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
)

func registerStoreRoutes() {
	webserver.ApiGET("/store", getStore)
	webserver.ApiPUT("/store", updateStore)
	webserver.ApiPUT("/store/visibility", updateStoreVisibility)
}

func getStore(c echo.Context) error {
	store, _, err := currentStore(c)
	if err != nil {
		return err
	}
	if err := getDB(c).Preload("Units.BusinessHours").
		First(store, "id = ?", store.ID).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load store")
	}
	return ok(c, store)
}

// updateStore edits the store profile. The slug is fixed at onboarding
// and ignored here.
func updateStore(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	form := struct {
		Name                              string   `json:"name" form:"name"`
		Description                       string   `json:"description" form:"description"`
		Category                          string   `json:"category" form:"category"`
		LogoURL                           string   `json:"logo_url" form:"logo_url"`
		LayoutType                        string   `json:"layout_type" form:"layout_type"`
		PaymentMethods                    []string `json:"payment_methods" form:"payment_methods"`
		AcceptsOrdersOnWhatsApp           *bool    `json:"accepts_orders_on_whatsapp"`
		AcceptsOrdersOutsideBusinessHours *bool    `json:"accepts_orders_outside_business_hours"`
	}{}
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	if form.Name == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "name is required")
	}
	switch form.LayoutType {
	case "", domain.LayoutHorizontal, domain.LayoutVertical:
	default:
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid layout_type")
	}

	store.Name = form.Name
	store.Description = form.Description
	store.Category = form.Category
	store.LogoURL = form.LogoURL
	if form.LayoutType != "" {
		store.LayoutType = form.LayoutType
	}
	if form.PaymentMethods != nil {
		store.PaymentMethods = form.PaymentMethods
	}
	if form.AcceptsOrdersOnWhatsApp != nil {
		store.AcceptsOrdersOnWhatsApp = *form.AcceptsOrdersOnWhatsApp
	}
	if form.AcceptsOrdersOutsideBusinessHours != nil {
		store.AcceptsOrdersOutsideBusinessHours = *form.AcceptsOrdersOutsideBusinessHours
	}
	store.UpdatedAt = time.Now()
	if err := getDB(c).Omit("Units").Save(store).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not update store")
	}
	recordOprLog(c, opr, "update_store", store.Slug)
	return okMsg(c, "store updated")
}

func updateStoreVisibility(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	form := struct {
		IsVisible bool `json:"is_visible" form:"is_visible"`
	}{}
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	err = getDB(c).Model(&domain.Store{}).Where("id = ?", store.ID).
		Updates(map[string]interface{}{"is_visible": form.IsVisible, "updated_at": time.Now()}).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not update store")
	}
	recordOprLog(c, opr, "update_store_visibility", store.Slug)
	return okMsg(c, "store updated")
}
