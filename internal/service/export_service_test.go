package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studygrid/scheduler-api/internal/models"
	"github.com/studygrid/scheduler-api/pkg/storage"
)

type exportTimetableStub struct {
	timetable *models.Timetable
	subjects  []models.Subject
}

func (s *exportTimetableStub) FindByID(ctx context.Context, id int64) (*models.Timetable, error) {
	return s.timetable, nil
}

func (s *exportTimetableStub) ListSubjects(ctx context.Context, timetableID int64) ([]models.Subject, error) {
	return s.subjects, nil
}

type memoryStorage struct {
	saved map[string][]byte
}

func (m *memoryStorage) Save(filename string, data []byte) (string, error) {
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[filename] = data
	return filename, nil
}

func (m *memoryStorage) Open(filename string) (*os.File, error) {
	return nil, os.ErrNotExist
}

func (m *memoryStorage) Delete(filename string) error {
	delete(m.saved, filename)
	return nil
}

func (m *memoryStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	return nil, nil
}

func newTestExportService(source *exportTimetableStub, files *memoryStorage) *ExportService {
	signer := storage.NewSignedURLSigner("test_secret", time.Hour)
	return NewExportService(source, files, signer, ExportConfig{APIPrefix: "/api/v1"}, zap.NewNop())
}

func exportJobFor(format models.ExportFormat) *models.ExportJob {
	return &models.ExportJob{
		ID:        "job-1",
		StudentID: "student-1",
		Status:    models.ExportStatusProcessing,
		Params:    models.ExportJobParams{TimetableID: 1, Format: format},
	}
}

func TestExportGenerateCSV(t *testing.T) {
	source := &exportTimetableStub{
		timetable: &models.Timetable{ID: 1, StudentID: "student-1", Semester: "2026-1"},
		subjects: []models.Subject{
			{ID: 1, Name: "Calculus I", Code: "MATH101", Category: "Math", Credits: 4, DifficultyLevel: 3, Schedule: "Mon 09:00-10:00; Wed 09:00-10:00"},
		},
	}
	files := &memoryStorage{}
	svc := newTestExportService(source, files)

	result, err := svc.Generate(context.Background(), exportJobFor(models.ExportFormatCSV))
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatCSV, result.Format)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/export/"))
	assert.NotEmpty(t, result.Token)

	require.Len(t, files.saved, 1)
	for name, payload := range files.saved {
		assert.True(t, strings.HasSuffix(name, ".csv"))
		content := string(payload)
		// one row per meeting slot
		assert.Equal(t, 2, strings.Count(content, "Calculus I"))
		assert.Contains(t, content, "Monday")
		assert.Contains(t, content, "Wednesday")
	}
}

func TestExportGenerateRejectsForeignTimetable(t *testing.T) {
	source := &exportTimetableStub{
		timetable: &models.Timetable{ID: 1, StudentID: "someone-else"},
	}
	svc := newTestExportService(source, &memoryStorage{})

	_, err := svc.Generate(context.Background(), exportJobFor(models.ExportFormatCSV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
}

func TestExportGenerateUnsupportedFormat(t *testing.T) {
	source := &exportTimetableStub{
		timetable: &models.Timetable{ID: 1, StudentID: "student-1"},
	}
	svc := newTestExportService(source, &memoryStorage{})

	_, err := svc.Generate(context.Background(), exportJobFor(models.ExportFormat("docx")))
	require.Error(t, err)
}

func TestExportGenerateTokenRoundTrip(t *testing.T) {
	source := &exportTimetableStub{
		timetable: &models.Timetable{ID: 1, StudentID: "student-1", Semester: "2026-1"},
		subjects:  []models.Subject{{ID: 1, Name: "Physics", Schedule: "Tue 10:00-12:00", Credits: 3, DifficultyLevel: 2}},
	}
	svc := newTestExportService(source, &memoryStorage{})

	result, err := svc.Generate(context.Background(), exportJobFor(models.ExportFormatICS))
	require.NoError(t, err)

	jobID, relPath, expiresAt, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, result.RelativePath, relPath)
	assert.WithinDuration(t, result.ExpiresAt, expiresAt, time.Second)
}
