package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-scheduler-api/internal/dto"
	"github.com/noah-isme/sma-scheduler-api/internal/middleware"
	"github.com/noah-isme/sma-scheduler-api/internal/models"
	"github.com/noah-isme/sma-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
	"github.com/noah-isme/sma-scheduler-api/pkg/response"
)

type timetableService interface {
	ListEntries(ctx context.Context, planID string, query dto.TimetableQuery) ([]models.TimetableEntryDetail, *models.Pagination, bool, error)
	ListConflicts(ctx context.Context, planID string) ([]models.SchedulingConflict, error)
	Audit(ctx context.Context, planID string) (*dto.TimetableAuditResponse, error)
	Export(ctx context.Context, planID string, query dto.TimetableExportQuery) (*service.TimetableExport, error)
}

// TimetableHandler serves committed timetables.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc timetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// List godoc
// @Summary List committed timetable entries of a plan
// @Tags Timetable
// @Produce json
// @Param planId path string true "Academic plan ID"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid timetable query"))
		return
	}
	entries, pagination, hit, err := h.service.ListEntries(c.Request.Context(), c.Param("planId"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, entries, pagination, middleware.ExtractMeta(c))
}

// Conflicts godoc
// @Summary List scheduling conflicts of a plan
// @Tags Timetable
// @Produce json
// @Param planId path string true "Academic plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/conflicts [get]
func (h *TimetableHandler) Conflicts(c *gin.Context) {
	conflicts, err := h.service.ListConflicts(c.Request.Context(), c.Param("planId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// Audit godoc
// @Summary Check committed entries for double bookings
// @Tags Timetable
// @Produce json
// @Param planId path string true "Academic plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/timetable/audit [get]
func (h *TimetableHandler) Audit(c *gin.Context) {
	report, err := h.service.Audit(c.Request.Context(), c.Param("planId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export the committed timetable
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param planId path string true "Academic plan ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /plans/{planId}/timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var query dto.TimetableExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid export query"))
		return
	}
	doc, err := h.service.Export(c.Request.Context(), c.Param("planId"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, doc.Filename, doc.ContentType, doc.Data)
}
