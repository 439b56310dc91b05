package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/common"
	"github.com/zencartio/zencart/pkg/money"
	"gorm.io/gorm"
)

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiPUT("/products/:id/availability", updateProductAvailability)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

var productSortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// listProducts supports keyword search, creation date range filters and
// whitelisted sorting.
func listProducts(c echo.Context) error {
	store, _, err := currentStore(c)
	if err != nil {
		return err
	}
	p := parsePagination(c)
	query := getDB(c).Model(&domain.Item{}).Where("store_id = ?", store.ID)
	if p.Keyword != "" {
		kw := "%" + p.Keyword + "%"
		query = query.Where("name ilike ? or description ilike ?", kw, kw)
	}
	if v := c.QueryParam("created_after"); v != "" {
		if t, err := dateparse.ParseLocal(v); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if v := c.QueryParam("created_before"); v != "" {
		if t, err := dateparse.ParseLocal(v); err == nil {
			query = query.Where("created_at <= ?", t)
		}
	}

	order := "created_at desc"
	if col, found := productSortColumns[c.QueryParam("sort")]; found {
		order = col
		if c.QueryParam("dir") == "desc" {
			order += " desc"
		}
	}

	var total int64
	query.Count(&total)
	var items []domain.Item
	err = query.Preload("Tags").
		Order(order).Offset(int(p.Pos)).Limit(int(p.Count)).
		Find(&items).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load products")
	}
	return paged(c, total, p.Pos, items)
}

func getProduct(c echo.Context) error {
	store, _, err := currentStore(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var item domain.Item
	err = getDB(c).Preload("Tags").Preload("CustomizationCategories.Items").
		Where("id = ? and store_id = ?", id, store.ID).First(&item).Error
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "product not found")
	}
	return ok(c, &item)
}

type productForm struct {
	Name        string   `json:"name" form:"name"`
	Description string   `json:"description" form:"description"`
	// Price arrives as masked text ("R$ 12,34"); digits are what count.
	Price       string   `json:"price" form:"price"`
	PriceType   string   `json:"price_type" form:"price_type"`
	Images      []string `json:"images" form:"images"`
	IsAvailable bool     `json:"is_available" form:"is_available"`
	TagIDs      []int64  `json:"tag_ids" form:"tag_ids"`
}

func (f *productForm) validate() (int64, string) {
	if strings.TrimSpace(f.Name) == "" {
		return 0, "name is required"
	}
	switch f.PriceType {
	case "", domain.PriceTypeIs, domain.PriceTypeStartsAt:
	default:
		return 0, "invalid price_type"
	}
	price, err := money.Parse(f.Price)
	if err != nil {
		return 0, "invalid price"
	}
	return price, ""
}

func loadStoreTags(db *gorm.DB, storeID int64, ids []int64) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []domain.Tag
	err := db.Where("store_id = ? and id in ?", storeID, ids).Find(&tags).Error
	return tags, err
}

func createProduct(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	form := new(productForm)
	if err := c.Bind(form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	price, msg := form.validate()
	if msg != "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", msg)
	}
	tags, err := loadStoreTags(getDB(c), store.ID, form.TagIDs)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load tags")
	}

	item := domain.Item{
		ID:          common.UUIDint64(),
		StoreID:     store.ID,
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		PriceType:   common.IfEmptyStr(form.PriceType, domain.PriceTypeIs),
		Images:      form.Images,
		IsAvailable: form.IsAvailable,
		Tags:        tags,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := getDB(c).Create(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not create product")
	}
	recordOprLog(c, opr, "create_product", item.Name)
	return ok(c, &item)
}

func updateProduct(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var item domain.Item
	if err := getDB(c).Where("id = ? and store_id = ?", id, store.ID).First(&item).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "product not found")
	}
	form := new(productForm)
	if err := c.Bind(form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	price, msg := form.validate()
	if msg != "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", msg)
	}
	tags, err := loadStoreTags(getDB(c), store.ID, form.TagIDs)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load tags")
	}

	item.Name = form.Name
	item.Description = form.Description
	item.Price = price
	item.PriceType = common.IfEmptyStr(form.PriceType, item.PriceType)
	item.Images = form.Images
	item.IsAvailable = form.IsAvailable
	item.UpdatedAt = time.Now()

	err = getDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "CustomizationCategories").Save(&item).Error; err != nil {
			return err
		}
		return tx.Model(&item).Association("Tags").Replace(tags)
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not update product")
	}
	recordOprLog(c, opr, "update_product", item.Name)
	return ok(c, &item)
}

func updateProductAvailability(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	form := struct {
		IsAvailable bool `json:"is_available" form:"is_available"`
	}{}
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	result := getDB(c).Model(&domain.Item{}).
		Where("id = ? and store_id = ?", id, store.ID).
		Updates(map[string]interface{}{"is_available": form.IsAvailable, "updated_at": time.Now()})
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not update product")
	}
	if result.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "product not found")
	}
	recordOprLog(c, opr, "update_product_availability", c.Param("id"))
	return okMsg(c, "product updated")
}

func deleteProduct(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var item domain.Item
	if err := getDB(c).Where("id = ? and store_id = ?", id, store.ID).First(&item).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "product not found")
	}
	err = getDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&item).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("category_id in (?)",
			tx.Model(&domain.CustomizationCategory{}).Select("id").Where("item_id = ?", item.ID),
		).Delete(&domain.CustomizationItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.CustomizationCategory{}, "item_id = ?", item.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Item{}, "id = ?", item.ID).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not delete product")
	}
	recordOprLog(c, opr, "delete_product", item.Name)
	return okMsg(c, "product deleted")
}
