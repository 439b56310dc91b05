package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/storefront"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/common"
	"gorm.io/gorm"
)

func registerUnitRoutes() {
	webserver.ApiGET("/units", listUnits)
	webserver.ApiPOST("/units", createUnit)
	webserver.ApiPUT("/units/:id", updateUnit)
	webserver.ApiDELETE("/units/:id", deleteUnit)
}

type unitForm struct {
	Name          string `json:"name" form:"name"`
	Cep           string `json:"cep" form:"cep"`
	Address       string `json:"address" form:"address"`
	Phone         string `json:"phone" form:"phone"`
	DeliveryType  string `json:"delivery_type" form:"delivery_type"`
	BusinessHours []struct {
		Day   string `json:"day" form:"day"`
		Open  string `json:"open" form:"open"`
		Close string `json:"close" form:"close"`
	} `json:"business_hours" form:"business_hours"`
}

func (f *unitForm) validate() string {
	if f.Name == "" {
		return "name is required"
	}
	switch f.DeliveryType {
	case domain.DeliveryOnly, domain.PickupOnly, domain.DeliveryAndPickup:
	default:
		return "invalid delivery_type"
	}
	for _, h := range f.BusinessHours {
		if !storefront.ValidWeekday(h.Day) {
			return "invalid business hour day: " + h.Day
		}
		if h.Open != domain.ClosedMarker {
			if _, err := storefront.ParseClock(h.Open); err != nil {
				return "invalid opening time for " + h.Day
			}
			if _, err := storefront.ParseClock(h.Close); err != nil {
				return "invalid closing time for " + h.Day
			}
		}
	}
	return ""
}

func (f *unitForm) hours(unitID int64) []domain.BusinessHour {
	rows := make([]domain.BusinessHour, 0, len(f.BusinessHours))
	for _, h := range f.BusinessHours {
		rows = append(rows, domain.BusinessHour{
			ID:     common.UUIDint64(),
			UnitID: unitID,
			Day:    h.Day,
			Open:   h.Open,
			Close:  h.Close,
		})
	}
	return rows
}

func listUnits(c echo.Context) error {
	store, _, err := currentStore(c)
	if err != nil {
		return err
	}
	var units []domain.Unit
	err = getDB(c).Preload("BusinessHours").
		Where("store_id = ?", store.ID).Order("created_at").Find(&units).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load units")
	}
	return ok(c, units)
}

func createUnit(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	form := new(unitForm)
	if err := c.Bind(form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	if msg := form.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", msg)
	}

	unit := domain.Unit{
		ID:           common.UUIDint64(),
		StoreID:      store.ID,
		Name:         form.Name,
		Cep:          common.UnmaskDigits(form.Cep),
		Address:      form.Address,
		Phone:        common.UnmaskDigits(form.Phone),
		DeliveryType: form.DeliveryType,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	err = getDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&unit).Error; err != nil {
			return err
		}
		if rows := form.hours(unit.ID); len(rows) > 0 {
			return tx.Create(&rows).Error
		}
		return nil
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not create unit")
	}
	recordOprLog(c, opr, "create_unit", unit.Name)
	return ok(c, unit)
}

// updateUnit rewrites the unit row and replaces its full weekly schedule.
func updateUnit(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var unit domain.Unit
	if err := getDB(c).Where("id = ? and store_id = ?", id, store.ID).First(&unit).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "unit not found")
	}
	form := new(unitForm)
	if err := c.Bind(form); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION", "invalid request body")
	}
	if msg := form.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", msg)
	}

	unit.Name = form.Name
	unit.Cep = common.UnmaskDigits(form.Cep)
	unit.Address = form.Address
	unit.Phone = common.UnmaskDigits(form.Phone)
	unit.DeliveryType = form.DeliveryType
	unit.UpdatedAt = time.Now()

	err = getDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("BusinessHours").Save(&unit).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.BusinessHour{}, "unit_id = ?", unit.ID).Error; err != nil {
			return err
		}
		if rows := form.hours(unit.ID); len(rows) > 0 {
			return tx.Create(&rows).Error
		}
		return nil
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not update unit")
	}
	recordOprLog(c, opr, "update_unit", unit.Name)
	return ok(c, unit)
}

func deleteUnit(c echo.Context) error {
	store, opr, err := currentStore(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	err = getDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.BusinessHour{}, "unit_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Unit{}, "id = ? and store_id = ?", id, store.ID).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not delete unit")
	}
	recordOprLog(c, opr, "delete_unit", c.Param("id"))
	return okMsg(c, "unit deleted")
}
