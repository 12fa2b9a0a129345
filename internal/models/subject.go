package models

import "time"

// Subject is a catalog row. Schedule and Prerequisites keep their stored
// free-text form; the scheduling engine parses them per request.
type Subject struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Code            string    `db:"code" json:"code"`
	Description     string    `db:"description" json:"description"`
	Category        string    `db:"category" json:"category"`
	DifficultyLevel int       `db:"difficulty_level" json:"difficulty_level"`
	Credits         int       `db:"credits" json:"credits"`
	Prerequisites   string    `db:"prerequisites" json:"prerequisites"`
	TeacherName     string    `db:"teacher_name" json:"teacher_name"`
	MaxStudents     int       `db:"max_students" json:"max_students"`
	Semester        string    `db:"semester" json:"semester"`
	Schedule        string    `db:"schedule" json:"schedule"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Category        string
	Difficulty      int
	Search          string
	IncludeInactive bool
	Page            int
	PageSize        int
	SortBy          string
	SortOrder       string
}
