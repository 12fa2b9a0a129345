package dto

// AvailabilityWindow is one open time range inside a day entry, using
// "HH:MM" 24-hour notation.
type AvailabilityWindow struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// DaySchedule describes one day of the weekly availability grid. Day accepts
// the usual spellings and abbreviations ("Monday", "mon").
type DaySchedule struct {
	Day       string               `json:"day" validate:"required"`
	Available bool                 `json:"available"`
	TimeSlots []AvailabilityWindow `json:"timeSlots" validate:"omitempty,dive"`
}

// UploadedSubject is an ad-hoc subject riding along with a build request,
// typically produced by the file upload parser.
type UploadedSubject struct {
	Name       string `json:"name" validate:"required"`
	Code       string `json:"code"`
	Category   string `json:"category"`
	Credits    int    `json:"credits" validate:"omitempty,min=1,max=10"`
	Difficulty int    `json:"difficulty" validate:"omitempty,min=1,max=5"`
	Schedule   string `json:"schedule"`
}

// BuildScheduleRequest mirrors the submit-preferences wire payload.
type BuildScheduleRequest struct {
	WeeklySchedule         []DaySchedule     `json:"weeklySchedule" validate:"required,min=1,dive"`
	SubjectCount           int               `json:"subjectCount" validate:"omitempty,min=1,max=15"`
	PreferenceStrategy     string            `json:"preferenceStrategy"`
	PrioritizeDependencies bool              `json:"prioritizeDependencies"`
	IncludeSaturday        bool              `json:"includeSaturday"`
	AdditionalNotes        string            `json:"additionalNotes"`
	UploadedSubjects       []UploadedSubject `json:"uploadedSubjects" validate:"omitempty,dive"`
}

// StrategyInfo describes one selectable ranking strategy.
type StrategyInfo struct {
	Value       string `json:"value"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}
