package dto

import "github.com/studygrid/scheduler-api/internal/models"

// CreateTimetableRequest captures POST /timetables payload.
type CreateTimetableRequest struct {
	Semester string `json:"semester"`
	Status   string `json:"status" validate:"omitempty,oneof=draft active archived"`
}

// UpdateTimetableRequest modifies a timetable; nil fields stay untouched.
type UpdateTimetableRequest struct {
	Semester *string `json:"semester"`
	Status   *string `json:"status" validate:"omitempty,oneof=draft active archived"`
}

// AddTimetableSubjectRequest pins a catalog subject onto a timetable.
type AddTimetableSubjectRequest struct {
	SubjectID int64 `json:"subject_id" validate:"required"`
}

// TimetableResponse returns a timetable with its joined subjects.
type TimetableResponse struct {
	models.Timetable
	Subjects []models.Subject `json:"subjects"`
}
