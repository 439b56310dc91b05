package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/common"
	"gorm.io/gorm"
)

func registerCategoryRoutes() {
	webserver.ApiGET("/categories", listCategories)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiPUT("/categories/:id", updateCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

type categoryForm struct {
	Name   string  `json:"name" form:"name"`
	Sort   int     `json:"sort" form:"sort"`
	TagIDs []int64 `json:"tag_ids" form:"tag_ids"`
}

func listCategories(c echo.Context) error {
	store, _, err := currentStore(c)
	if err != nil {
		return err
	}
	var categories []domain.Category
	err = getDB(c).Preload("Tags").
		Where("store_id = ?", store.ID).Order("sort, created_at").
		Find(&categories).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load categories")
	}
	return ok(c, categories)
}

func createCategory(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	form := new(categoryForm)
	if err := c.Bind(form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	if strings.TrimSpace(form.Name) == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "name is required")
	}
	tags, err := loadStoreTags(getDB(c), store.ID, form.TagIDs)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load tags")
	}
	category := domain.Category{
		ID:        common.UUIDint64(),
		StoreID:   store.ID,
		Name:      form.Name,
		Sort:      form.Sort,
		Tags:      tags,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := getDB(c).Create(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not create category")
	}
	recordOprLog(c, opr, "create_category", category.Name)
	return ok(c, &category)
}

func updateCategory(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var category domain.Category
	if err := getDB(c).Where("id = ? and store_id = ?", id, store.ID).First(&category).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "category not found")
	}
	form := new(categoryForm)
	if err := c.Bind(form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	if strings.TrimSpace(form.Name) == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "name is required")
	}
	tags, err := loadStoreTags(getDB(c), store.ID, form.TagIDs)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load tags")
	}

	category.Name = form.Name
	category.Sort = form.Sort
	category.UpdatedAt = time.Now()
	err = getDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Save(&category).Error; err != nil {
			return err
		}
		return tx.Model(&category).Association("Tags").Replace(tags)
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not update category")
	}
	recordOprLog(c, opr, "update_category", category.Name)
	return ok(c, &category)
}

func deleteCategory(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var category domain.Category
	if err := getDB(c).Where("id = ? and store_id = ?", id, store.ID).First(&category).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "category not found")
	}
	err = getDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&category).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&domain.Category{}, "id = ?", category.ID).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not delete category")
	}
	recordOprLog(c, opr, "delete_category", category.Name)
	return okMsg(c, "category deleted")
}
