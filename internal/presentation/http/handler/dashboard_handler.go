package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mkamau/storesight-api/internal/application/service"
	"github.com/mkamau/storesight-api/internal/domain/enum"
	"github.com/mkamau/storesight-api/internal/presentation/http/dto/request"
	"github.com/mkamau/storesight-api/internal/presentation/http/dto/response"
	"github.com/mkamau/storesight-api/internal/presentation/http/middleware"
	"github.com/mkamau/storesight-api/internal/report"
)

// DashboardHandler handles dashboard and report HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	productService   *service.ProductService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, productService *service.ProductService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, productService: productService}
}

func parseRange(c *gin.Context) (report.Range, bool) {
	var req request.ReportRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "start and end query parameters are required")
		return report.Range{}, false
	}

	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return report.Range{}, false
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
		return report.Range{}, false
	}
	if end.Before(start) {
		response.BadRequest(c, "End date must not precede start date")
		return report.Range{}, false
	}

	return report.NewRange(start, end), true
}

// Get handles loading the dashboard snapshot for a date range. Pass
// refresh=true to bypass the cached snapshot.
func (h *DashboardHandler) Get(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == uuid.Nil {
		response.BadRequest(c, "No active tenant")
		return
	}

	rng, ok := parseRange(c)
	if !ok {
		return
	}
	refresh := c.Query("refresh") == "true"

	snapshot, err := h.dashboardService.Load(c.Request.Context(), tenantID, rng, refresh)
	if err != nil {
		// A failed refresh still reports the last good snapshot.
		state := h.dashboardService.State(tenantID)
		if state.Snapshot != nil {
			response.OK(c, "Dashboard refresh failed, showing previous data", state)
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard retrieved successfully", gin.H{
		"phase":    service.PhaseReady,
		"snapshot": snapshot,
	})
}

// GetState returns the tenant's current dashboard state without
// triggering a load.
func (h *DashboardHandler) GetState(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == uuid.Nil {
		response.BadRequest(c, "No active tenant")
		return
	}

	response.OK(c, "Dashboard state retrieved successfully", h.dashboardService.State(tenantID))
}

// SalesReport handles the sales report for a date range
func (h *DashboardHandler) SalesReport(c *gin.Context) {
	h.report(c, enum.TransactionKindSale, "Sales report generated successfully")
}

// PurchasesReport handles the purchases report for a date range
func (h *DashboardHandler) PurchasesReport(c *gin.Context) {
	h.report(c, enum.TransactionKindPurchase, "Purchases report generated successfully")
}

func (h *DashboardHandler) report(c *gin.Context, kind enum.TransactionKind, message string) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == uuid.Nil {
		response.BadRequest(c, "No active tenant")
		return
	}

	rng, ok := parseRange(c)
	if !ok {
		return
	}

	snapshot, err := h.dashboardService.Report(c.Request.Context(), tenantID, kind, rng)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message, snapshot)
}

// RestockAlerts returns products at or below their alert threshold
func (h *DashboardHandler) RestockAlerts(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Restock alerts retrieved successfully", gin.H{
		"products": products,
		"count":    len(products),
	})
}
