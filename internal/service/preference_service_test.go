package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studygrid/scheduler-api/internal/models"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
)

type prefRepoStub struct {
	prefs    []models.SubjectPreference
	byID     map[int64]*models.SubjectPreference
	upserted *models.SubjectPreference
	deleted  bool
}

func (s *prefRepoStub) ListByStudent(ctx context.Context, studentID string) ([]models.SubjectPreference, error) {
	return s.prefs, nil
}

func (s *prefRepoStub) InterestByStudent(ctx context.Context, studentID string) (map[string]int, error) {
	interest := make(map[string]int, len(s.prefs))
	for _, pref := range s.prefs {
		interest[pref.SubjectName] = pref.InterestLevel
	}
	return interest, nil
}

func (s *prefRepoStub) FindByID(ctx context.Context, id int64) (*models.SubjectPreference, error) {
	pref, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return pref, nil
}

func (s *prefRepoStub) Upsert(ctx context.Context, pref *models.SubjectPreference) error {
	s.upserted = pref
	return nil
}

func (s *prefRepoStub) Delete(ctx context.Context, id int64, studentID string) (bool, error) {
	s.deleted = true
	return true, nil
}

func newTestPreferenceService(repo *prefRepoStub) *PreferenceService {
	return NewPreferenceService(repo, disabledCache(), nil, zap.NewNop())
}

func TestPreferenceSetDefaults(t *testing.T) {
	repo := &prefRepoStub{}
	svc := newTestPreferenceService(repo)

	pref, err := svc.Set(context.Background(), "student-1", SetPreferenceRequest{
		SubjectName: "  Linear Algebra  ",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, "Linear Algebra", pref.SubjectName)
	assert.Equal(t, defaultInterestLevel, pref.InterestLevel)
	assert.Equal(t, models.PreferenceStatusInterested, pref.Status)
	assert.Equal(t, "student-1", pref.StudentID)
}

func TestPreferenceSetRejectsBlankName(t *testing.T) {
	svc := newTestPreferenceService(&prefRepoStub{})

	_, err := svc.Set(context.Background(), "student-1", SetPreferenceRequest{SubjectName: "   "})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPreferenceSetRejectsInterestOutOfRange(t *testing.T) {
	svc := newTestPreferenceService(&prefRepoStub{})

	_, err := svc.Set(context.Background(), "student-1", SetPreferenceRequest{
		SubjectName:   "Physics",
		InterestLevel: 6,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPreferenceDeleteEnforcesOwnership(t *testing.T) {
	repo := &prefRepoStub{byID: map[int64]*models.SubjectPreference{
		7: {ID: 7, StudentID: "someone-else", SubjectName: "Physics"},
	}}
	svc := newTestPreferenceService(repo)

	err := svc.Delete(context.Background(), "student-1", 7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.deleted)
}

func TestPreferenceDeleteNotFound(t *testing.T) {
	svc := newTestPreferenceService(&prefRepoStub{byID: map[int64]*models.SubjectPreference{}})

	err := svc.Delete(context.Background(), "student-1", 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPreferenceDeleteOwned(t *testing.T) {
	repo := &prefRepoStub{byID: map[int64]*models.SubjectPreference{
		7: {ID: 7, StudentID: "student-1", SubjectName: "Physics"},
	}}
	svc := newTestPreferenceService(repo)

	require.NoError(t, svc.Delete(context.Background(), "student-1", 7))
	assert.True(t, repo.deleted)
}

func TestPreferenceListNeverNil(t *testing.T) {
	svc := newTestPreferenceService(&prefRepoStub{})

	prefs, err := svc.List(context.Background(), "student-1")
	require.NoError(t, err)
	require.NotNil(t, prefs)
	assert.Empty(t, prefs)
}
