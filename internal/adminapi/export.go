package adminapi

import (
	"fmt"
	"net/http"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/money"
)

func registerExportRoutes() {
	webserver.ApiGET("/products/export/csv", exportProductsCSV)
	webserver.ApiGET("/products/export/xlsx", exportProductsXLSX)
}

type productExportRow struct {
	ID          int64  `csv:"id"`
	Name        string `csv:"name"`
	Description string `csv:"description"`
	Price       string `csv:"price"`
	PriceType   string `csv:"price_type"`
	Available   bool   `csv:"available"`
	CreatedAt   string `csv:"created_at"`
}

func loadExportRows(c echo.Context) ([]productExportRow, error) {
	store, _, err := currentStore(c)
	if err != nil {
		return nil, err
	}
	var items []domain.Item
	err = getDB(c).Where("store_id = ?", store.ID).Order("created_at").Find(&items).Error
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "could not load products")
	}
	rows := make([]productExportRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, productExportRow{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       money.Format(it.Price),
			PriceType:   it.PriceType,
			Available:   it.IsAvailable,
			CreatedAt:   it.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows, nil
}

func exportProductsCSV(c echo.Context) error {
	rows, err := loadExportRows(c)
	if err != nil {
		return err
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not encode csv")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

func exportProductsXLSX(c echo.Context) error {
	rows, err := loadExportRows(c)
	if err != nil {
		return err
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := "Products"
	_ = f.SetSheetName("Sheet1", sheet)
	headers := []interface{}{"id", "name", "description", "price", "price_type", "available", "created_at"}
	_ = f.SetSheetRow(sheet, "A1", &headers)
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		_ = f.SetSheetRow(sheet, cell, &[]interface{}{
			r.ID, r.Name, r.Description, r.Price, r.PriceType, r.Available, r.CreatedAt,
		})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
