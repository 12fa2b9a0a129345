package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studygrid/scheduler-api/internal/dto"
	"github.com/studygrid/scheduler-api/internal/middleware"
	"github.com/studygrid/scheduler-api/internal/scheduling"
	"github.com/studygrid/scheduler-api/internal/service"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
	"github.com/studygrid/scheduler-api/pkg/response"
)

type scheduleBuilder interface {
	BuildSchedule(ctx context.Context, studentID string, req dto.BuildScheduleRequest) (*scheduling.Result, bool, error)
	Strategies() []dto.StrategyInfo
}

// SchedulingHandler exposes the schedule building endpoints.
type SchedulingHandler struct {
	service scheduleBuilder
}

// NewSchedulingHandler constructs the handler.
func NewSchedulingHandler(svc *service.SchedulingService) *SchedulingHandler {
	return &SchedulingHandler{service: svc}
}

// Build godoc
// @Summary Build a conflict-free weekly schedule
// @Description Filters the catalog by the student's availability, ranks candidates by the chosen strategy, and greedily admits non-conflicting subjects
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body dto.BuildScheduleRequest true "Build payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /schedules/build [post]
func (h *SchedulingHandler) Build(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.BuildScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	result, cacheHit, err := h.service.BuildSchedule(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	response.JSON(c, status, result, nil, meta)
}

// Strategies godoc
// @Summary List selectable ranking strategies
// @Tags Scheduling
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules/strategies [get]
func (h *SchedulingHandler) Strategies(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Strategies(), nil)
}
