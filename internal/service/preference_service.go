package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studygrid/scheduler-api/internal/models"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
)

// defaultInterestLevel is applied when a preference is saved without an
// explicit interest value.
const defaultInterestLevel = 3

type preferenceRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.SubjectPreference, error)
	InterestByStudent(ctx context.Context, studentID string) (map[string]int, error)
	FindByID(ctx context.Context, id int64) (*models.SubjectPreference, error)
	Upsert(ctx context.Context, pref *models.SubjectPreference) error
	Delete(ctx context.Context, id int64, studentID string) (bool, error)
}

// SetPreferenceRequest records or refreshes a subject preference. Preferences
// are keyed by subject name so they also apply to uploaded subjects.
type SetPreferenceRequest struct {
	SubjectName   string `json:"subject_name" validate:"required"`
	InterestLevel int    `json:"interest_level" validate:"omitempty,min=1,max=5"`
	Priority      int    `json:"priority" validate:"omitempty,min=0,max=10"`
	Notes         string `json:"notes"`
	Status        string `json:"status" validate:"omitempty,oneof=interested enrolled dropped"`
}

// PreferenceService manages per student subject preferences.
type PreferenceService struct {
	repo      preferenceRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPreferenceService creates a new preference service.
func NewPreferenceService(repo preferenceRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns the preferences recorded by a student.
func (s *PreferenceService) List(ctx context.Context, studentID string) ([]models.SubjectPreference, error) {
	prefs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list preferences")
	}
	if prefs == nil {
		prefs = []models.SubjectPreference{}
	}
	return prefs, nil
}

// Set records or refreshes a preference for the student.
func (s *PreferenceService) Set(ctx context.Context, studentID string, req SetPreferenceRequest) (*models.SubjectPreference, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}

	name := strings.TrimSpace(req.SubjectName)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject name is required")
	}

	interest := req.InterestLevel
	if interest == 0 {
		interest = defaultInterestLevel
	}
	status := models.PreferenceStatus(req.Status)
	if status == "" {
		status = models.PreferenceStatusInterested
	}

	pref := &models.SubjectPreference{
		StudentID:     studentID,
		SubjectName:   name,
		InterestLevel: interest,
		Priority:      req.Priority,
		Notes:         req.Notes,
		Status:        status,
	}
	if err := s.repo.Upsert(ctx, pref); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save preference")
	}

	s.invalidateScheduleCache(ctx, studentID)
	return pref, nil
}

// Delete removes a preference owned by the student.
func (s *PreferenceService) Delete(ctx context.Context, studentID string, id int64) error {
	pref, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "preference not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preference")
	}
	if pref.StudentID != studentID {
		return appErrors.Clone(appErrors.ErrForbidden, "preference belongs to another student")
	}

	removed, err := s.repo.Delete(ctx, id, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete preference")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "preference not found")
	}

	s.invalidateScheduleCache(ctx, studentID)
	return nil
}

// InterestMap returns the subject name to interest level mapping consumed by
// schedule builds. Missing rows mean no recorded interest.
func (s *PreferenceService) InterestMap(ctx context.Context, studentID string) (map[string]int, error) {
	interest, err := s.repo.InterestByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interest map")
	}
	return interest, nil
}

// invalidateScheduleCache drops cached schedule results for the student since
// preference changes affect interest based ranking.
func (s *PreferenceService) invalidateScheduleCache(ctx context.Context, studentID string) {
	pattern := fmt.Sprintf("schedules:%s:*", studentID)
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("failed to invalidate schedule cache", zap.String("student_id", studentID), zap.Error(err))
	}
}
