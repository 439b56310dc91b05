package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
)

func registerSettingsRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPUT("/settings", updateSetting)
	webserver.ApiGET("/oprlogs", listOprLogs)
}

func requireSuper(c echo.Context) (*domain.SysOpr, error) {
	opr, err := currentOperator(c)
	if err != nil {
		return nil, err
	}
	if opr.Level != "super" {
		return nil, echo.NewHTTPError(http.StatusForbidden, "super operator only")
	}
	return opr, nil
}

func listSettings(c echo.Context) error {
	if _, err := requireSuper(c); err != nil {
		return err
	}
	var rows []domain.SysConfig
	err := getDB(c).Order("type, sort, name").Find(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load settings")
	}
	return ok(c, rows)
}

func updateSetting(c echo.Context) error {
	opr, err := requireSuper(c)
	if err != nil {
		return err
	}
	form := struct {
		Type  string `json:"type" form:"type"`
		Name  string `json:"name" form:"name"`
		Value string `json:"value" form:"value"`
	}{}
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	if strings.TrimSpace(form.Type) == "" || strings.TrimSpace(form.Name) == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "type and name are required")
	}
	if err := webserver.GetApp(c).SetSettingsValue(form.Type, form.Name, form.Value); err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not save setting")
	}
	recordOprLog(c, opr, "update_setting", form.Type+"/"+form.Name)
	return okMsg(c, "setting saved")
}

func listOprLogs(c echo.Context) error {
	if _, err := requireSuper(c); err != nil {
		return err
	}
	p := parsePagination(c)
	query := getDB(c).Model(&domain.SysOprLog{})
	if p.Keyword != "" {
		kw := "%" + p.Keyword + "%"
		query = query.Where("opr_name ilike ? or opt_action ilike ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	var rows []domain.SysOprLog
	err := query.Order("opt_time desc").Offset(int(p.Pos)).Limit(int(p.Count)).Find(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load logs")
	}
	return paged(c, total, p.Pos, rows)
}
