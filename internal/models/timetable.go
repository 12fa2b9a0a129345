package models

import "time"

// TimetableStatus tracks the lifecycle of a saved timetable.
type TimetableStatus string

const (
	TimetableStatusDraft    TimetableStatus = "draft"
	TimetableStatusActive   TimetableStatus = "active"
	TimetableStatusArchived TimetableStatus = "archived"
)

// Timetable is a student's saved semester plan. Each student has at most one.
type Timetable struct {
	ID        int64           `db:"id" json:"id"`
	StudentID string          `db:"student_id" json:"student_id"`
	Semester  string          `db:"semester" json:"semester"`
	Status    TimetableStatus `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// UpdateTimetableParams carries the mutable timetable fields; nil means leave
// unchanged. An update with neither field set is rejected.
type UpdateTimetableParams struct {
	Semester *string
	Status   *TimetableStatus
}

// TimetableSubject pins one catalog subject to a timetable.
type TimetableSubject struct {
	ID          int64     `db:"id" json:"id"`
	TimetableID int64     `db:"timetable_id" json:"timetable_id"`
	SubjectID   int64     `db:"subject_id" json:"subject_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
