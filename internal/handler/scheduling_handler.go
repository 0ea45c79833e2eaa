package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-scheduler-api/internal/dto"
	"github.com/noah-isme/sma-scheduler-api/internal/middleware"
	"github.com/noah-isme/sma-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
	"github.com/noah-isme/sma-scheduler-api/pkg/response"
)

type schedulingService interface {
	ListStrategies() []dto.StrategyResponse
	Run(ctx context.Context, planID string, req dto.RunSchedulingRequest, actorID string) (*dto.SchedulingRunResponse, error)
	GetRun(ctx context.Context, runID string) (*dto.SchedulingRunResponse, error)
	CommitRun(ctx context.Context, runID string) (*dto.SchedulingRunResponse, error)
}

// SchedulingHandler exposes timetable generation endpoints.
type SchedulingHandler struct {
	service schedulingService
}

// NewSchedulingHandler constructs the handler.
func NewSchedulingHandler(svc schedulingService) *SchedulingHandler {
	return &SchedulingHandler{service: svc}
}

// ListStrategies godoc
// @Summary List scheduling strategies
// @Tags Scheduling
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /scheduling/strategies [get]
func (h *SchedulingHandler) ListStrategies(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ListStrategies(), nil)
}

// Run godoc
// @Summary Generate a timetable for an academic plan
// @Description Runs the selected strategy against the plan snapshot. Set commit to replace the stored timetable, dryRun to preview only, async to queue the run.
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param planId path string true "Academic plan ID"
// @Param payload body dto.RunSchedulingRequest false "Run options"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /plans/{planId}/scheduling/runs [post]
func (h *SchedulingHandler) Run(c *gin.Context) {
	var req dto.RunSchedulingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Validation(err, "invalid scheduling payload"))
		return
	}

	run, err := h.service.Run(c.Request.Context(), c.Param("planId"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "runId", run.RunID)
	if run.Status == string(models.RunStatusQueued) {
		response.Accepted(c, run, middleware.ExtractMeta(c))
		return
	}
	response.JSON(c, http.StatusOK, run, nil, middleware.ExtractMeta(c))
}

// GetRun godoc
// @Summary Get a scheduling run
// @Tags Scheduling
// @Produce json
// @Param runId path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scheduling/runs/{runId} [get]
func (h *SchedulingHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// CommitRun godoc
// @Summary Commit a previewed scheduling run
// @Tags Scheduling
// @Produce json
// @Param runId path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scheduling/runs/{runId}/commit [post]
func (h *SchedulingHandler) CommitRun(c *gin.Context) {
	run, err := h.service.CommitRun(c.Request.Context(), c.Param("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}
