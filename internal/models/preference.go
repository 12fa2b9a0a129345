package models

import "time"

// PreferenceStatus tracks how a student relates to a subject preference.
type PreferenceStatus string

const (
	PreferenceStatusInterested PreferenceStatus = "interested"
	PreferenceStatusEnrolled   PreferenceStatus = "enrolled"
	PreferenceStatusDropped    PreferenceStatus = "dropped"
)

// SubjectPreference records a student's interest in a subject, keyed by
// subject name so the scheduling engine can match uploaded subjects too.
type SubjectPreference struct {
	ID            int64            `db:"id" json:"id"`
	StudentID     string           `db:"student_id" json:"student_id"`
	SubjectName   string           `db:"subject_name" json:"subject_name"`
	InterestLevel int              `db:"interest_level" json:"interest_level"`
	Priority      int              `db:"priority" json:"priority"`
	Notes         string           `db:"notes" json:"notes"`
	Status        PreferenceStatus `db:"status" json:"status"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}
