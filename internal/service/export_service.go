package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/studygrid/scheduler-api/internal/models"
	"github.com/studygrid/scheduler-api/internal/scheduling"
	"github.com/studygrid/scheduler-api/pkg/export"
	"github.com/studygrid/scheduler-api/pkg/storage"
)

// semesterWeeks bounds the weekly recurrence emitted in calendar exports.
const semesterWeeks = 16

type exportTimetableSource interface {
	FindByID(ctx context.Context, id int64) (*models.Timetable, error)
	ListSubjects(ctx context.Context, timetableID int64) ([]models.Subject, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

type icsRenderer interface {
	Render(events []export.Event, calendarName string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders saved timetables into downloadable files.
type ExportService struct {
	timetables exportTimetableSource
	storage    fileStorage
	csv        csvRenderer
	pdf        pdfRenderer
	xlsx       xlsxRenderer
	ics        icsRenderer
	signer     *storage.SignedURLSigner
	logger     *zap.Logger
	cfg        ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(timetables exportTimetableSource, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		timetables: timetables,
		storage:    files,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		xlsx:       export.NewXLSXExporter(),
		ics:        export.NewICSExporter(),
		signer:     signer,
		logger:     logger,
		cfg:        cfg,
	}
}

// Generate renders the timetable referenced by the job and stores the result.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	timetable, err := s.timetables.FindByID(ctx, job.Params.TimetableID)
	if err != nil {
		return nil, fmt.Errorf("load timetable %d: %w", job.Params.TimetableID, err)
	}
	if timetable.StudentID != job.StudentID {
		return nil, fmt.Errorf("timetable %d does not belong to job owner", timetable.ID)
	}
	subjects, err := s.timetables.ListSubjects(ctx, timetable.ID)
	if err != nil {
		return nil, fmt.Errorf("load timetable subjects: %w", err)
	}

	title := job.Params.Title
	if title == "" {
		title = fmt.Sprintf("Timetable %s", timetable.Semester)
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(timetableDataset(subjects))
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(timetableDataset(subjects), title)
	case models.ExportFormatXLSX:
		payload, err = s.xlsx.Render(timetableDataset(subjects), "Timetable")
	case models.ExportFormatICS:
		payload, err = s.ics.Render(timetableEvents(timetable, subjects), title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("timetable_%d_%s.%s", job.Params.TimetableID, timestamp, job.Params.Format)
}

// timetableDataset flattens subjects into one row per meeting slot. Subjects
// whose schedule text cannot be parsed keep a single row with the raw text so
// nothing silently disappears from the export.
func timetableDataset(subjects []models.Subject) export.Dataset {
	headers := []string{"Subject", "Code", "Category", "Day", "Start", "End", "Credits", "Difficulty", "Teacher"}
	rows := make([]map[string]string, 0, len(subjects))
	for _, subject := range subjects {
		base := map[string]string{
			"Subject":    subject.Name,
			"Code":       subject.Code,
			"Category":   subject.Category,
			"Credits":    fmt.Sprintf("%d", subject.Credits),
			"Difficulty": fmt.Sprintf("%d", subject.DifficultyLevel),
			"Teacher":    subject.TeacherName,
		}
		slots, _ := scheduling.ParseScheduleText(subject.Schedule)
		if len(slots) == 0 {
			row := cloneRow(base)
			row["Day"] = subject.Schedule
			rows = append(rows, row)
			continue
		}
		for _, slot := range slots {
			row := cloneRow(base)
			row["Day"] = string(slot.Day)
			row["Start"] = slot.Start.String()
			row["End"] = slot.End.String()
			rows = append(rows, row)
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// timetableEvents maps each meeting slot to a weekly recurring calendar event
// starting at the slot's next occurrence.
func timetableEvents(timetable *models.Timetable, subjects []models.Subject) []export.Event {
	now := time.Now().UTC()
	events := make([]export.Event, 0, len(subjects))
	for _, subject := range subjects {
		slots, _ := scheduling.ParseScheduleText(subject.Schedule)
		for i, slot := range slots {
			start := nextOccurrence(now, slot.Day, slot.Start)
			end := start.Add(time.Duration(slot.End-slot.Start) * time.Minute)
			description := subject.Category
			if subject.TeacherName != "" {
				description = fmt.Sprintf("%s / %s", subject.Category, subject.TeacherName)
			}
			events = append(events, export.Event{
				UID:         fmt.Sprintf("timetable-%d-subject-%d-%d@studygrid", timetable.ID, subject.ID, i),
				Summary:     subject.Name,
				Description: description,
				Start:       start,
				End:         end,
				Recurrence:  fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", semesterWeeks),
			})
		}
	}
	return events
}

var weekdayIndex = map[scheduling.Weekday]time.Weekday{
	scheduling.Monday:    time.Monday,
	scheduling.Tuesday:   time.Tuesday,
	scheduling.Wednesday: time.Wednesday,
	scheduling.Thursday:  time.Thursday,
	scheduling.Friday:    time.Friday,
	scheduling.Saturday:  time.Saturday,
	scheduling.Sunday:    time.Sunday,
}

// nextOccurrence returns the next date falling on the given weekday at the
// given clock time, counting from the reference instant.
func nextOccurrence(from time.Time, day scheduling.Weekday, clock scheduling.ClockTime) time.Time {
	target, ok := weekdayIndex[day]
	if !ok {
		target = from.Weekday()
	}
	daysAhead := (int(target) - int(from.Weekday()) + 7) % 7
	date := from.AddDate(0, 0, daysAhead)
	candidate := time.Date(date.Year(), date.Month(), date.Day(), int(clock)/60, int(clock)%60, 0, 0, time.UTC)
	if candidate.Before(from) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

func cloneRow(base map[string]string) map[string]string {
	row := make(map[string]string, len(base)+3)
	for k, v := range base {
		row[k] = v
	}
	return row
}
