package dto

import "github.com/studygrid/scheduler-api/internal/models"

// ExportRequest captures POST /exports payload.
type ExportRequest struct {
	TimetableID int64               `json:"timetableId" validate:"required"`
	Format      models.ExportFormat `json:"format" validate:"required,oneof=csv pdf xlsx ics"`
	Title       string              `json:"title"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
