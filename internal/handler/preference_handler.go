package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studygrid/scheduler-api/internal/service"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
	"github.com/studygrid/scheduler-api/pkg/response"
)

// PreferenceHandler manages subject preference endpoints.
type PreferenceHandler struct {
	service *service.PreferenceService
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: svc}
}

// List godoc
// @Summary List the student's subject preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /preferences [get]
func (h *PreferenceHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	preferences, err := h.service.List(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preferences, nil)
}

// Set godoc
// @Summary Create or update a subject preference
// @Description Upserts by subject name; a second PUT for the same subject overwrites it
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body service.SetPreferenceRequest true "Preference payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /preferences [put]
func (h *PreferenceHandler) Set(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SetPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preference payload"))
		return
	}
	preference, err := h.service.Set(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preference, nil)
}

// Delete godoc
// @Summary Delete a subject preference
// @Tags Preferences
// @Produce json
// @Param id path int true "Preference ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /preferences/{id} [delete]
func (h *PreferenceHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid preference id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), claims.StudentID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
