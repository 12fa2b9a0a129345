package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studygrid/scheduler-api/internal/service"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
	"github.com/studygrid/scheduler-api/pkg/response"
)

// UploadHandler parses ad-hoc subject files into uploadable subject records.
type UploadHandler struct {
	service *service.UploadService
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{service: svc}
}

// ParseSubjects godoc
// @Summary Parse an uploaded subject file
// @Description Accepts .csv, .json, .txt, or .xlsx files and returns the extracted subjects ready to attach to a build request
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Subject file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /uploads/subjects [post]
func (h *UploadHandler) ParseSubjects(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read file"))
		return
	}

	result, err := h.service.Parse(fileHeader.Filename, content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
