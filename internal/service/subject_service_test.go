package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studygrid/scheduler-api/internal/models"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
)

type subjectRepoStub struct {
	byID       map[int64]*models.Subject
	active     []models.Subject
	categories []string
	codes      map[string]bool

	created *models.Subject
	updated *models.Subject
}

func newSubjectRepoStub() *subjectRepoStub {
	return &subjectRepoStub{
		byID:  map[int64]*models.Subject{},
		codes: map[string]bool{},
	}
}

func (s *subjectRepoStub) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	return s.active, len(s.active), nil
}

func (s *subjectRepoStub) ListActive(ctx context.Context) ([]models.Subject, error) {
	return s.active, nil
}

func (s *subjectRepoStub) Categories(ctx context.Context) ([]string, error) {
	return s.categories, nil
}

func (s *subjectRepoStub) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	subject, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return subject, nil
}

func (s *subjectRepoStub) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return s.codes[code], nil
}

func (s *subjectRepoStub) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = int64(len(s.byID) + 1)
	s.byID[subject.ID] = subject
	s.created = subject
	return nil
}

func (s *subjectRepoStub) Update(ctx context.Context, subject *models.Subject) error {
	s.updated = subject
	return nil
}

func (s *subjectRepoStub) Deactivate(ctx context.Context, id int64) error {
	s.byID[id].IsActive = false
	return nil
}

func newTestSubjectService(repo *subjectRepoStub) *SubjectService {
	return NewSubjectService(repo, disabledCache(), 0, nil, zap.NewNop())
}

func validSubjectRequest() CreateSubjectRequest {
	return CreateSubjectRequest{
		Name:            "Calculus I",
		Code:            "math101",
		Category:        "Math",
		DifficultyLevel: 3,
		Credits:         4,
		Schedule:        "Mon 09:00-10:00",
	}
}

func TestSubjectCreateNormalizesCode(t *testing.T) {
	repo := newSubjectRepoStub()
	svc := newTestSubjectService(repo)

	subject, err := svc.Create(context.Background(), validSubjectRequest())
	require.NoError(t, err)
	assert.Equal(t, "MATH101", subject.Code)
	assert.True(t, subject.IsActive)
	require.NotNil(t, repo.created)
}

func TestSubjectCreateRejectsDuplicateCode(t *testing.T) {
	repo := newSubjectRepoStub()
	repo.codes["MATH101"] = true
	svc := newTestSubjectService(repo)

	_, err := svc.Create(context.Background(), validSubjectRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSubjectCreateRejectsInvalidDifficulty(t *testing.T) {
	svc := newTestSubjectService(newSubjectRepoStub())

	req := validSubjectRequest()
	req.DifficultyLevel = 6
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubjectGetNotFound(t *testing.T) {
	svc := newTestSubjectService(newSubjectRepoStub())

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubjectUpdateTogglesActive(t *testing.T) {
	repo := newSubjectRepoStub()
	repo.byID[1] = &models.Subject{ID: 1, Name: "Calculus I", Code: "MATH101", Category: "Math",
		DifficultyLevel: 3, Credits: 4, Schedule: "Mon 09:00-10:00", IsActive: true}
	svc := newTestSubjectService(repo)

	inactive := false
	req := UpdateSubjectRequest{
		Name:            "Calculus I",
		Code:            "MATH101",
		Category:        "Math",
		DifficultyLevel: 3,
		Credits:         4,
		Schedule:        "Mon 09:00-10:00",
		IsActive:        &inactive,
	}
	subject, err := svc.Update(context.Background(), 1, req)
	require.NoError(t, err)
	assert.False(t, subject.IsActive)
	require.NotNil(t, repo.updated)
}

func TestSubjectDeactivate(t *testing.T) {
	repo := newSubjectRepoStub()
	repo.byID[1] = &models.Subject{ID: 1, Name: "Calculus I", IsActive: true}
	svc := newTestSubjectService(repo)

	require.NoError(t, svc.Deactivate(context.Background(), 1))
	assert.False(t, repo.byID[1].IsActive)
}

func TestSubjectListPaginationDefaults(t *testing.T) {
	repo := newSubjectRepoStub()
	repo.active = []models.Subject{{ID: 1, Name: "Calculus I"}}
	svc := newTestSubjectService(repo)

	subjects, pagination, err := svc.List(context.Background(), models.SubjectFilter{})
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
	require.NotNil(t, pagination)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestCatalogSnapshotCachesWithConfiguredTTL(t *testing.T) {
	repo := newSubjectRepoStub()
	repo.active = []models.Subject{{ID: 1, Name: "Calculus I", Category: "Math", IsActive: true}}
	cacheRepo := newRecordingCacheRepo()
	svc := NewSubjectService(repo, recordingCache(cacheRepo), 30*time.Minute, nil, zap.NewNop())

	_, err := svc.CatalogSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cacheRepo.setTTLs["subjects:catalog"])
}

func TestSubjectWritesInvalidateScheduleCache(t *testing.T) {
	repo := newSubjectRepoStub()
	cacheRepo := newRecordingCacheRepo()
	svc := NewSubjectService(repo, recordingCache(cacheRepo), 0, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), validSubjectRequest())
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.patterns, "subjects:*")
	assert.Contains(t, cacheRepo.patterns, "schedules:*")
}
