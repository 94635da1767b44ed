package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

// AnalyticsController menyajikan statistik dashboard dan laporan pendapatan.
type AnalyticsController struct {
	analytics   *services.AnalyticsService
	restaurants *services.RestaurantService
}

func NewAnalyticsController(svc *services.Container) *AnalyticsController {
	return &AnalyticsController{analytics: svc.Analytics, restaurants: svc.Restaurants}
}

func (ac *AnalyticsController) DashboardSummary(c *gin.Context) {
	summary, err := ac.analytics.DashboardSummary(c.Request.Context(), restaurantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard summary retrieved successfully", summary)
}

// dateRange membaca ?from=&to=, default 7 hari terakhir
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	today := time.Now()
	to, ok := queryDate(c, "to", today)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	from, ok := queryDate(c, "from", to.AddDate(0, 0, -6))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (ac *AnalyticsController) DailyRevenue(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	rows, err := ac.analytics.DailyRevenue(c.Request.Context(), restaurantID(c), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily revenue retrieved successfully", rows)
}

func (ac *AnalyticsController) TopSellingItems(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		utils.RespondFail(c, http.StatusBadRequest, "Invalid limit")
		return
	}
	items, err := ac.analytics.TopSellingItems(c.Request.Context(), restaurantID(c), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Top selling items retrieved successfully", items)
}

// ExportDailyRevenue -> laporan pendapatan harian dalam format PDF
func (ac *AnalyticsController) ExportDailyRevenue(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	rid := restaurantID(c)

	restaurant, err := ac.restaurants.Get(ctx, actorFrom(c), rid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	rows, err := ac.analytics.DailyRevenue(ctx, rid, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteDailyRevenuePDF(&buf, restaurant.Name, from, to, rows); err != nil {
		respondServiceError(c, err)
		return
	}
	filename := fmt.Sprintf("revenue_%s_%s.pdf", from.Format(dateLayout), to.Format(dateLayout))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (ac *AnalyticsController) AverageOrderValue(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	aov, err := ac.analytics.AverageOrderValue(c.Request.Context(), restaurantID(c), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Average order value retrieved successfully", aov)
}

// TableOccupancy -> kondisi meja saat ini, tanpa rentang tanggal
func (ac *AnalyticsController) TableOccupancy(c *gin.Context) {
	occ, err := ac.analytics.TableOccupancy(c.Request.Context(), restaurantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table occupancy retrieved successfully", occ)
}

func (ac *AnalyticsController) PeakHours(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	hours, err := ac.analytics.PeakHours(c.Request.Context(), restaurantID(c), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Peak hours retrieved successfully", hours)
}

func (ac *AnalyticsController) PaymentMethodDistribution(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	shares, err := ac.analytics.PaymentMethodDistribution(c.Request.Context(), restaurantID(c), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment method distribution retrieved successfully", shares)
}
