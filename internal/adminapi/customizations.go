package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/common"
	"github.com/zencartio/zencart/pkg/money"
	"gorm.io/gorm"
)

func registerCustomizationRoutes() {
	webserver.ApiGET("/products/:id/customizations", listCustomizations)
	webserver.ApiPUT("/products/:id/customizations", replaceCustomizations)
}

// ownedItem loads an item of the current store.
func ownedItem(c echo.Context) (*domain.Item, *domain.SysOpr, error) {
	store, opr, err := currentStore(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, nil, err
	}
	var item domain.Item
	if err := getDB(c).Where("id = ? and store_id = ?", id, store.ID).First(&item).Error; err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return &item, opr, nil
}

func listCustomizations(c echo.Context) error {
	item, _, err := ownedItem(c)
	if err != nil {
		return err
	}
	var groups []domain.CustomizationCategory
	err = getDB(c).Preload("Items").
		Where("item_id = ?", item.ID).Find(&groups).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load customizations")
	}
	return ok(c, groups)
}

type customizationGroupForm struct {
	Name        string `json:"name" form:"name"`
	MinRequired int    `json:"min_required" form:"min_required"`
	MaxAllowed  int    `json:"max_allowed" form:"max_allowed"`
	Items       []struct {
		Name  string `json:"name" form:"name"`
		Price string `json:"price" form:"price"`
	} `json:"items" form:"items"`
}

// replaceCustomizations rewrites the item's whole add-on tree, the way
// the admin form submits it.
func replaceCustomizations(c echo.Context) error {
	item, opr, err := ownedItem(c)
	if err != nil {
		return err
	}
	var forms []customizationGroupForm
	if err := c.Bind(&forms); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}

	groups := make([]domain.CustomizationCategory, 0, len(forms))
	for _, f := range forms {
		if strings.TrimSpace(f.Name) == "" {
			return fail(c, http.StatusBadRequest, "VALIDATION", "group name is required")
		}
		if f.MinRequired < 0 || f.MaxAllowed < 0 {
			return fail(c, http.StatusBadRequest, "VALIDATION", "selection bounds cannot be negative")
		}
		if f.MaxAllowed > 0 && f.MinRequired > f.MaxAllowed {
			return fail(c, http.StatusBadRequest, "VALIDATION", "min_required exceeds max_allowed")
		}
		group := domain.CustomizationCategory{
			ID:          common.UUIDint64(),
			ItemID:      item.ID,
			Name:        f.Name,
			MinRequired: f.MinRequired,
			MaxAllowed:  f.MaxAllowed,
		}
		for _, it := range f.Items {
			if strings.TrimSpace(it.Name) == "" {
				return fail(c, http.StatusBadRequest, "VALIDATION", "add-on name is required")
			}
			price, err := money.Parse(it.Price)
			if err != nil {
				return fail(c, http.StatusBadRequest, "VALIDATION", "invalid add-on price")
			}
			group.Items = append(group.Items, domain.CustomizationItem{
				ID:         common.UUIDint64(),
				CategoryID: group.ID,
				Name:       it.Name,
				Price:      price,
			})
		}
		groups = append(groups, group)
	}

	err = getDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id in (?)",
			tx.Model(&domain.CustomizationCategory{}).Select("id").Where("item_id = ?", item.ID),
		).Delete(&domain.CustomizationItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.CustomizationCategory{}, "item_id = ?", item.ID).Error; err != nil {
			return err
		}
		if len(groups) == 0 {
			return nil
		}
		return tx.Create(&groups).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not save customizations")
	}
	recordOprLog(c, opr, "replace_customizations", item.Name)
	return ok(c, groups)
}
