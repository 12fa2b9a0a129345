package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studygrid/scheduler-api/internal/dto"
	"github.com/studygrid/scheduler-api/internal/service"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
	"github.com/studygrid/scheduler-api/pkg/response"
)

// TimetableHandler manages saved timetable endpoints.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Create godoc
// @Summary Save a new timetable
// @Description Each student keeps at most one saved timetable; a second create returns 409
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimetableRequest true "Timetable payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}
	timetable, err := h.service.Create(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, timetable)
}

// GetMine godoc
// @Summary Get the student's saved timetable with subjects
// @Tags Timetables
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) GetMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	timetable, err := h.service.GetMine(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetable, nil)
}

// Get godoc
// @Summary Get a timetable by id
// @Tags Timetables
// @Produce json
// @Param id path int true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	timetable, err := h.service.Get(c.Request.Context(), claims.StudentID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetable, nil)
}

// Update godoc
// @Summary Update timetable semester or status
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path int true "Timetable ID"
// @Param payload body dto.UpdateTimetableRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /timetables/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}
	timetable, err := h.service.Update(c.Request.Context(), claims.StudentID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetable, nil)
}

// Delete godoc
// @Summary Delete a timetable
// @Tags Timetables
// @Produce json
// @Param id path int true "Timetable ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), claims.StudentID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddSubject godoc
// @Summary Pin a catalog subject onto a timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path int true "Timetable ID"
// @Param payload body dto.AddTimetableSubjectRequest true "Subject reference"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables/{id}/subjects [post]
func (h *TimetableHandler) AddSubject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.AddTimetableSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}
	if err := h.service.AddSubject(c.Request.Context(), claims.StudentID, id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"timetable_id": id, "subject_id": req.SubjectID})
}

// RemoveSubject godoc
// @Summary Remove a subject from a timetable
// @Tags Timetables
// @Produce json
// @Param id path int true "Timetable ID"
// @Param subjectId path int true "Subject ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /timetables/{id}/subjects/{subjectId} [delete]
func (h *TimetableHandler) RemoveSubject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	subjectID, err := parseID(c, "subjectId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.RemoveSubject(c.Request.Context(), claims.StudentID, id, subjectID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}
