package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ok    = webserver.OK
	okMsg = webserver.OKMsg
	fail  = webserver.Fail
	paged = webserver.Paged
)

// InitRouter registers every admin API route.
func InitRouter() {
	registerAuthRoutes()
	registerStoreRoutes()
	registerUnitRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerTagRoutes()
	registerCustomizationRoutes()
	registerExportRoutes()
	registerDashboardRoutes()
	registerUploadRoutes()
	registerSettingsRoutes()
}

func getDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

type pagination struct {
	Pos     int64
	Count   int64
	Keyword string
}

func parsePagination(c echo.Context) pagination {
	p := pagination{
		Pos:     cast.ToInt64(c.QueryParam("start")),
		Count:   cast.ToInt64(c.QueryParam("count")),
		Keyword: strings.TrimSpace(c.QueryParam("keyword")),
	}
	if p.Count <= 0 || p.Count > 500 {
		p.Count = 40
	}
	if p.Pos < 0 {
		p.Pos = 0
	}
	return p
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id := cast.ToInt64(c.Param(name))
	if id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// currentOperator loads the authenticated operator row.
func currentOperator(c echo.Context) (*domain.SysOpr, error) {
	oprID := webserver.CurrentOprID(c)
	if oprID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	var opr domain.SysOpr
	if err := getDB(c).Where("id = ?", oprID).First(&opr).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "operator not found")
	}
	if opr.Status != "enabled" {
		return nil, echo.NewHTTPError(http.StatusForbidden, "operator disabled")
	}
	return &opr, nil
}

// currentStore loads the store owned by the authenticated operator.
func currentStore(c echo.Context) (*domain.Store, *domain.SysOpr, error) {
	opr, err := currentOperator(c)
	if err != nil {
		return nil, nil, err
	}
	var store domain.Store
	if err := getDB(c).Where("operator_id = ?", opr.ID).First(&store).Error; err != nil {
		return nil, opr, echo.NewHTTPError(http.StatusNotFound, "store not found")
	}
	return &store, opr, nil
}

func recordOprLog(c echo.Context, opr *domain.SysOpr, action, desc string) {
	err := getDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   opr.Username,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}).Error
	if err != nil {
		zap.S().Warnf("failed to record operator log: %s", err)
	}
}
