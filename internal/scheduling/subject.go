package scheduling

import "fmt"

// SubjectSource tags where a subject entered the run, so catalog rows and
// ad-hoc uploads never collide even though both carry numeric ids.
type SubjectSource string

const (
	SourceCatalog  SubjectSource = "catalog"
	SourceUploaded SubjectSource = "uploaded"
)

// Subject is a schedulable unit after catalog assembly: stored schedule and
// prerequisite text already parsed, source tagged.
type Subject struct {
	ID            int64         `json:"id"`
	Source        SubjectSource `json:"source"`
	Name          string        `json:"name"`
	Code          string        `json:"code,omitempty"`
	Category      string        `json:"category"`
	Credits       int           `json:"credits"`
	Difficulty    int           `json:"difficulty_level"`
	Prerequisites []string      `json:"prerequisites"`
	Slots         []TimeSlot    `json:"time_slots"`
	TeacherName   string        `json:"teacher_name,omitempty"`
	MaxStudents   int           `json:"max_students,omitempty"`
	Description   string        `json:"description,omitempty"`
}

// WeeklyHours sums the duration of every meeting slot.
func (s Subject) WeeklyHours() float64 {
	var total float64
	for _, slot := range s.Slots {
		total += slot.Duration()
	}
	return total
}

// CatalogEntry is a raw catalog row before schedule parsing, mirroring what
// the subject store returns.
type CatalogEntry struct {
	ID            int64
	Name          string
	Code          string
	Category      string
	Credits       int
	Difficulty    int
	Prerequisites string
	Schedule      string
	TeacherName   string
	MaxStudents   int
	Description   string
}

// UploadedSubject is an ad-hoc subject submitted with a scheduling request.
// Zero Credits or Difficulty means the field was absent and defaults apply.
type UploadedSubject struct {
	Name       string
	Code       string
	Category   string
	Credits    int
	Difficulty int
	Schedule   string
}

const (
	uploadedIDOffset     = 1000
	defaultUploadedValue = 3
	uploadedDefaultGroup = "Uploaded"
)

// AssembleCatalog parses catalog rows into subjects and appends uploaded
// entries behind a high id offset. Uploaded rows take category "Uploaded",
// credits and difficulty 3 when unset, and never carry prerequisites. The
// second return value lists schedule segments that could not be parsed.
func AssembleCatalog(rows []CatalogEntry, uploads []UploadedSubject) ([]Subject, []string) {
	subjects := make([]Subject, 0, len(rows)+len(uploads))
	var warnings []string

	for _, row := range rows {
		slots, skipped := ParseScheduleText(row.Schedule)
		for _, segment := range skipped {
			warnings = append(warnings, fmt.Sprintf("subject %q: unparsable schedule segment %q", row.Name, segment))
		}
		subjects = append(subjects, Subject{
			ID:            row.ID,
			Source:        SourceCatalog,
			Name:          row.Name,
			Code:          row.Code,
			Category:      row.Category,
			Credits:       row.Credits,
			Difficulty:    row.Difficulty,
			Prerequisites: ParsePrerequisites(row.Prerequisites),
			Slots:         slots,
			TeacherName:   row.TeacherName,
			MaxStudents:   row.MaxStudents,
			Description:   row.Description,
		})
	}

	for i, upload := range uploads {
		slots, skipped := ParseScheduleText(upload.Schedule)
		for _, segment := range skipped {
			warnings = append(warnings, fmt.Sprintf("uploaded subject %q: unparsable schedule segment %q", upload.Name, segment))
		}
		category := upload.Category
		if category == "" {
			category = uploadedDefaultGroup
		}
		credits := upload.Credits
		if credits == 0 {
			credits = defaultUploadedValue
		}
		difficulty := upload.Difficulty
		if difficulty == 0 {
			difficulty = defaultUploadedValue
		}
		subjects = append(subjects, Subject{
			ID:          int64(len(rows) + uploadedIDOffset + i),
			Source:      SourceUploaded,
			Name:        upload.Name,
			Code:        upload.Code,
			Category:    category,
			Credits:     credits,
			Difficulty:  difficulty,
			Slots:       slots,
			Description: fmt.Sprintf("Uploaded subject: %s", upload.Name),
		})
	}

	return subjects, warnings
}
