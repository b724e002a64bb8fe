package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/bizmetrics-api/internal/application/service"
	"github.com/sangkips/bizmetrics-api/internal/presentation/http/dto/request"
	"github.com/sangkips/bizmetrics-api/internal/presentation/http/dto/response"
	"github.com/sangkips/bizmetrics-api/internal/presentation/http/middleware"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetKPIs handles computing the KPI report for the caller's tenant
// @Summary KPI report
// @Tags Dashboard
// @Produce json
// @Param days query int false "Trailing window length in days"
// @Param start_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param end_date query string false "Inclusive end date (YYYY-MM-DD)"
// @Param as_of query string false "Reference instant (RFC3339)"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /dashboard/kpis [get]
func (h *DashboardHandler) GetKPIs(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.KPIReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	spec, err := req.PeriodSpecifier()
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.dashboardService.GetKPIReport(c.Request.Context(), middleware.GetTenantID(c), spec)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "KPI report computed successfully", report)
}

// GetConfig handles returning the effective engine configuration
// @Summary KPI engine configuration
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /dashboard/config [get]
func (h *DashboardHandler) GetConfig(c *gin.Context) {
	response.OK(c, "Dashboard configuration retrieved successfully", h.dashboardService.Configuration())
}
