package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studygrid/scheduler-api/internal/dto"
	"github.com/studygrid/scheduler-api/internal/models"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
)

type catalogStub struct {
	rows []models.Subject
	err  error
}

func (s *catalogStub) CatalogSnapshot(ctx context.Context) ([]models.Subject, error) {
	return s.rows, s.err
}

type interestStub struct {
	interest map[string]int
}

func (s *interestStub) InterestMap(ctx context.Context, studentID string) (map[string]int, error) {
	return s.interest, nil
}

func disabledCache() *CacheService {
	return NewCacheService(nil, nil, 0, zap.NewNop(), false)
}

// recordingCacheRepo captures write TTLs and invalidation patterns. Reads
// always miss so service flows take the repository path.
type recordingCacheRepo struct {
	setTTLs  map[string]time.Duration
	patterns []string
}

func newRecordingCacheRepo() *recordingCacheRepo {
	return &recordingCacheRepo{setTTLs: map[string]time.Duration{}}
}

func (r *recordingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (r *recordingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	r.setTTLs[key] = ttl
	return nil
}

func (r *recordingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	r.patterns = append(r.patterns, pattern)
	return nil
}

func recordingCache(repo *recordingCacheRepo) *CacheService {
	return NewCacheService(repo, nil, 0, zap.NewNop(), true)
}

func newTestSchedulingService(catalog *catalogStub, interest *interestStub) *SchedulingService {
	return NewSchedulingService(catalog, interest, nil, disabledCache(), nil, nil, zap.NewNop(), SchedulingConfig{})
}

func mondayAvailability() []dto.DaySchedule {
	return []dto.DaySchedule{
		{Day: "Monday", Available: true, TimeSlots: []dto.AvailabilityWindow{{Start: "08:00", End: "18:00"}}},
	}
}

func TestBuildScheduleExactFit(t *testing.T) {
	catalog := &catalogStub{rows: []models.Subject{
		{ID: 1, Name: "Calculus I", Category: "Math", Credits: 4, DifficultyLevel: 3, Schedule: "Mon 09:00-10:00", IsActive: true},
	}}
	svc := newTestSchedulingService(catalog, &interestStub{})

	result, cached, err := svc.BuildSchedule(context.Background(), "student-1", dto.BuildScheduleRequest{
		WeeklySchedule: mondayAvailability(),
		SubjectCount:   1,
	})
	require.NoError(t, err)
	require.False(t, cached)
	require.True(t, result.Success)
	require.Len(t, result.Schedule, 1)
	assert.Equal(t, "Calculus I", result.Schedule[0].Name)
	assert.Equal(t, 1, result.TotalSubjects)
}

func TestBuildScheduleUnknownDayRejected(t *testing.T) {
	svc := newTestSchedulingService(&catalogStub{}, &interestStub{})

	_, _, err := svc.BuildSchedule(context.Background(), "student-1", dto.BuildScheduleRequest{
		WeeklySchedule: []dto.DaySchedule{{Day: "Funday", Available: true}},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestBuildScheduleInvalidWindowRejected(t *testing.T) {
	svc := newTestSchedulingService(&catalogStub{}, &interestStub{})

	_, _, err := svc.BuildSchedule(context.Background(), "student-1", dto.BuildScheduleRequest{
		WeeklySchedule: []dto.DaySchedule{
			{Day: "Monday", Available: true, TimeSlots: []dto.AvailabilityWindow{{Start: "12:00", End: "09:00"}}},
		},
	})
	require.Error(t, err)
}

func TestBuildScheduleMissingAvailabilityRejected(t *testing.T) {
	svc := newTestSchedulingService(&catalogStub{}, &interestStub{})

	_, _, err := svc.BuildSchedule(context.Background(), "student-1", dto.BuildScheduleRequest{})
	require.Error(t, err)
}

func TestBuildScheduleSaturdayExcludedByDefault(t *testing.T) {
	catalog := &catalogStub{rows: []models.Subject{
		{ID: 1, Name: "Weekend Lab", Category: "Science", Credits: 3, DifficultyLevel: 2, Schedule: "Sat 09:00-11:00", IsActive: true},
	}}
	svc := newTestSchedulingService(catalog, &interestStub{})

	availability := []dto.DaySchedule{
		{Day: "Saturday", Available: true, TimeSlots: []dto.AvailabilityWindow{{Start: "08:00", End: "14:00"}}},
	}

	result, _, err := svc.BuildSchedule(context.Background(), "student-1", dto.BuildScheduleRequest{
		WeeklySchedule: availability,
		SubjectCount:   1,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Schedule)

	result, _, err = svc.BuildSchedule(context.Background(), "student-1", dto.BuildScheduleRequest{
		WeeklySchedule:  availability,
		SubjectCount:    1,
		IncludeSaturday: true,
	})
	require.NoError(t, err)
	require.Len(t, result.Schedule, 1)
	assert.Equal(t, "Weekend Lab", result.Schedule[0].Name)
}

func TestBuildScheduleInterestRanking(t *testing.T) {
	catalog := &catalogStub{rows: []models.Subject{
		{ID: 1, Name: "History", Category: "Humanities", Credits: 3, DifficultyLevel: 2, Schedule: "Mon 09:00-10:00", IsActive: true},
		{ID: 2, Name: "Physics", Category: "Science", Credits: 4, DifficultyLevel: 4, Schedule: "Mon 09:30-10:30", IsActive: true},
	}}
	interest := &interestStub{interest: map[string]int{"Physics": 5, "History": 1}}
	svc := newTestSchedulingService(catalog, interest)

	result, _, err := svc.BuildSchedule(context.Background(), "student-1", dto.BuildScheduleRequest{
		WeeklySchedule:     mondayAvailability(),
		SubjectCount:       2,
		PreferenceStrategy: "interest_based",
	})
	require.NoError(t, err)
	// The two subjects overlap, so only the higher-interest one is admitted.
	require.Len(t, result.Schedule, 1)
	assert.Equal(t, "Physics", result.Schedule[0].Name)
}

func TestBuildScheduleDeterministic(t *testing.T) {
	catalog := &catalogStub{rows: []models.Subject{
		{ID: 1, Name: "Algebra", Category: "Math", Credits: 3, DifficultyLevel: 2, Schedule: "Mon 09:00-10:00", IsActive: true},
		{ID: 2, Name: "Biology", Category: "Science", Credits: 3, DifficultyLevel: 2, Schedule: "Mon 10:00-11:00", IsActive: true},
		{ID: 3, Name: "Chemistry", Category: "Science", Credits: 3, DifficultyLevel: 2, Schedule: "Mon 11:00-12:00", IsActive: true},
	}}
	svc := newTestSchedulingService(catalog, &interestStub{})

	req := dto.BuildScheduleRequest{
		WeeklySchedule:     mondayAvailability(),
		SubjectCount:       3,
		PreferenceStrategy: "maximize_subjects",
	}
	first, _, err := svc.BuildSchedule(context.Background(), "student-1", req)
	require.NoError(t, err)
	second, _, err := svc.BuildSchedule(context.Background(), "student-1", req)
	require.NoError(t, err)

	require.Equal(t, len(first.Schedule), len(second.Schedule))
	for i := range first.Schedule {
		assert.Equal(t, first.Schedule[i].Name, second.Schedule[i].Name)
	}
}

func TestStrategiesListsAllFive(t *testing.T) {
	svc := newTestSchedulingService(&catalogStub{}, &interestStub{})
	infos := svc.Strategies()
	require.Len(t, infos, 5)
	values := make([]string, 0, len(infos))
	defaults := 0
	for _, info := range infos {
		values = append(values, info.Value)
		assert.NotEmpty(t, info.Description)
		if info.Default {
			defaults++
			assert.Equal(t, "interest_based", info.Value)
		}
	}
	assert.Equal(t, 1, defaults)
	assert.Contains(t, values, "maximize_subjects")
	assert.Contains(t, values, "clear_dependencies")
	assert.Contains(t, values, "balanced_difficulty")
	assert.Contains(t, values, "interest_based")
	assert.Contains(t, values, "high_value_credits")
}

func TestBuildScheduleCachesWithConfiguredTTL(t *testing.T) {
	catalog := &catalogStub{rows: []models.Subject{
		{ID: 1, Name: "Calculus I", Category: "Math", Credits: 4, DifficultyLevel: 3, Schedule: "Mon 09:00-10:00", IsActive: true},
	}}
	repo := newRecordingCacheRepo()
	svc := NewSchedulingService(catalog, &interestStub{}, nil, recordingCache(repo), nil, nil, zap.NewNop(),
		SchedulingConfig{ResultCacheTTL: 42 * time.Minute})

	result, _, err := svc.BuildSchedule(context.Background(), "student-1", dto.BuildScheduleRequest{
		WeeklySchedule: mondayAvailability(),
		SubjectCount:   1,
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	require.Len(t, repo.setTTLs, 1)
	for key, ttl := range repo.setTTLs {
		assert.True(t, strings.HasPrefix(key, "schedules:student-1:"))
		assert.Equal(t, 42*time.Minute, ttl)
	}
}

func TestBuildScheduleSubjectCountFromConfig(t *testing.T) {
	catalog := &catalogStub{rows: []models.Subject{
		{ID: 1, Name: "Calculus I", Category: "Math", Credits: 4, DifficultyLevel: 3, Schedule: "Mon 09:00-10:00", IsActive: true},
		{ID: 2, Name: "Physics I", Category: "Science", Credits: 4, DifficultyLevel: 3, Schedule: "Mon 10:00-11:00", IsActive: true},
		{ID: 3, Name: "Chemistry I", Category: "Science", Credits: 3, DifficultyLevel: 2, Schedule: "Mon 11:00-12:00", IsActive: true},
	}}
	svc := NewSchedulingService(catalog, &interestStub{}, nil, disabledCache(), nil, nil, zap.NewNop(),
		SchedulingConfig{DefaultSubjectCount: 2})

	result, _, err := svc.BuildSchedule(context.Background(), "student-1", dto.BuildScheduleRequest{
		WeeklySchedule: mondayAvailability(),
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Len(t, result.Schedule, 2)
}
