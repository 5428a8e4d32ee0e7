package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"evalportal/internal/service"
)

// AdminHandler handles the administrator dashboard endpoints.
type AdminHandler struct {
	statsService  service.StatsService
	exportService service.ExportService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(statsService service.StatsService, exportService service.ExportService) *AdminHandler {
	return &AdminHandler{
		statsService:  statsService,
		exportService: exportService,
	}
}

// Stats godoc
// @Summary Evaluation statistics
// @Description Project ranking, the full evaluation log and completion counters.
// @Tags admin
// @Produce json
// @Success 200 {object} service.Statistics
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.statsService.Compute(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Export godoc
// @Summary Export evaluations as CSV
// @Tags admin
// @Produce text/csv
// @Success 200 {file} file
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/export [get]
func (h *AdminHandler) Export(c echo.Context) error {
	data, err := h.exportService.ExportCSV(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+service.ExportFilename)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
