package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finly-app/finly_backend/internal/core/ports/services"
	"github.com/finly-app/finly_backend/internal/dto"
	"github.com/finly-app/finly_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for the derived views.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

// registerReportingRoutes registers the reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/dashboard", h.getDashboard)
		reports.GET("/calendar-days", h.getCalendarDays)
		reports.GET("/monthly-trend", h.getMonthlyTrend)
	}
}

// getDashboard godoc
// @Summary Dashboard aggregates
// @Description Total balance, period income/expense/net for the given filters, and per-category budget status
// @Tags reports
// @Produce  json
// @Param   year query int true "Year"
// @Param   month query int false "Month (1-12), omit for the whole year"
// @Param   categoryID query string false "Restrict to one category"
// @Param   accountID query string false "Restrict to one account"
// @Param   day query string false "Day (YYYY-MM-DD) in day view"
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.PeriodFilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for Dashboard", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dashboard, err := h.reportingService.Dashboard(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// getCalendarDays godoc
// @Summary Days carrying transactions
// @Description Distinct days with at least one transaction matching the filters, ignoring the day filter itself
// @Tags reports
// @Produce  json
// @Param   year query int true "Year"
// @Param   month query int false "Month (1-12)"
// @Param   categoryID query string false "Restrict to one category"
// @Param   accountID query string false "Restrict to one account"
// @Success 200 {object} dto.CalendarDaysResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/calendar-days [get]
func (h *reportingHandler) getCalendarDays(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.PeriodFilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for CalendarDays", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	days, err := h.reportingService.CalendarDays(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to compute calendar days")
		return
	}

	c.JSON(http.StatusOK, days)
}

// getMonthlyTrend godoc
// @Summary Monthly spend per category
// @Description Completed expenses bucketed by trailing month and category, zero-filled per month
// @Tags reports
// @Produce  json
// @Param   monthsBack query int false "Trailing window size" default(6)
// @Success 200 {object} dto.MonthlyTrendResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/monthly-trend [get]
func (h *reportingHandler) getMonthlyTrend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.MonthlyTrendParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for MonthlyTrend", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	trend, err := h.reportingService.MonthlyTrend(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to compute monthly trend")
		return
	}

	c.JSON(http.StatusOK, trend)
}
