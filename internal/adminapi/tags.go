package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/common"
)

func registerTagRoutes() {
	webserver.ApiGET("/tags", listTags)
	webserver.ApiPOST("/tags", createTag)
	webserver.ApiDELETE("/tags/:id", deleteTag)
}

func listTags(c echo.Context) error {
	store, _, err := currentStore(c)
	if err != nil {
		return err
	}
	var tags []domain.Tag
	err = getDB(c).Where("store_id = ?", store.ID).Order("name").Find(&tags).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load tags")
	}
	return ok(c, tags)
}

func createTag(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	form := struct {
		Name string `json:"name" form:"name"`
	}{}
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "name is required")
	}
	var count int64
	getDB(c).Model(&domain.Tag{}).
		Where("store_id = ? and lower(name) = lower(?)", store.ID, name).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "CONFLICT", "tag already exists")
	}
	tag := domain.Tag{ID: common.UUIDint64(), StoreID: store.ID, Name: name}
	if err := getDB(c).Create(&tag).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not create tag")
	}
	recordOprLog(c, opr, "create_tag", tag.Name)
	return ok(c, &tag)
}

// deleteTag also detaches the tag from items and categories.
func deleteTag(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var tag domain.Tag
	if err := getDB(c).Where("id = ? and store_id = ?", id, store.ID).First(&tag).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "tag not found")
	}
	db := getDB(c)
	db.Exec("delete from item_tags where tag_id = ?", tag.ID)
	db.Exec("delete from category_tags where tag_id = ?", tag.ID)
	if err := db.Delete(&domain.Tag{}, "id = ?", tag.ID).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not delete tag")
	}
	recordOprLog(c, opr, "delete_tag", tag.Name)
	return okMsg(c, "tag deleted")
}
