package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/zencartio/zencart/internal/domain"
	"github.com/zencartio/zencart/internal/webserver"
	"github.com/zencartio/zencart/pkg/metrics"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/overview", dashboardOverview)
	webserver.ApiGET("/dashboard/system", dashboardSystem)
}

// dashboardOverview summarizes the merchant's catalog and the recent
// checkout funnel.
func dashboardOverview(c echo.Context) error {
	store, _, err := currentStore(c)
	if err != nil {
		return err
	}
	db := getDB(c)

	var productCount, availableCount, categoryCount, unitCount int64
	db.Model(&domain.Item{}).Where("store_id = ?", store.ID).Count(&productCount)
	db.Model(&domain.Item{}).Where("store_id = ? and is_available = ?", store.ID, true).Count(&availableCount)
	db.Model(&domain.Category{}).Where("store_id = ?", store.ID).Count(&categoryCount)
	db.Model(&domain.Unit{}).Where("store_id = ?", store.ID).Count(&unitCount)

	var prices []float64
	db.Model(&domain.Item{}).Where("store_id = ?", store.ID).Pluck("price", &prices)
	priceStats := map[string]float64{}
	if len(prices) > 0 {
		if v, err := stats.Mean(prices); err == nil {
			priceStats["mean"] = v
		}
		if v, err := stats.Median(prices); err == nil {
			priceStats["median"] = v
		}
		if v, err := stats.Min(prices); err == nil {
			priceStats["min"] = v
		}
		if v, err := stats.Max(prices); err == nil {
			priceStats["max"] = v
		}
	}

	now := time.Now()
	return ok(c, map[string]interface{}{
		"products":           productCount,
		"products_available": availableCount,
		"categories":         categoryCount,
		"units":              unitCount,
		"price_stats":        priceStats,
		"checkout_links_24h": metrics.CountRange(metrics.MetricCheckoutLinks, now.Add(-24*time.Hour), now),
		"checkout_links_7d":  metrics.CountRange(metrics.MetricCheckoutLinks, now.Add(-7*24*time.Hour), now),
		"http_requests_24h":  metrics.CountRange(metrics.MetricHTTPRequests, now.Add(-24*time.Hour), now),
	})
}

// dashboardSystem reports host health for the super operator console.
func dashboardSystem(c echo.Context) error {
	opr, err := currentOperator(c)
	if err != nil {
		return err
	}
	if opr.Level != "super" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "super operator only")
	}

	out := map[string]interface{}{}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		out["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		out["mem_total"] = vm.Total
		out["mem_used_percent"] = vm.UsedPercent
	}
	return ok(c, out)
}
