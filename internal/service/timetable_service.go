package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studygrid/scheduler-api/internal/dto"
	"github.com/studygrid/scheduler-api/internal/models"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
)

type timetableRepository interface {
	Create(ctx context.Context, timetable *models.Timetable) error
	FindByID(ctx context.Context, id int64) (*models.Timetable, error)
	FindByStudent(ctx context.Context, studentID string) (*models.Timetable, error)
	Update(ctx context.Context, id int64, params models.UpdateTimetableParams) error
	Delete(ctx context.Context, id int64) error
	HasSubject(ctx context.Context, timetableID, subjectID int64) (bool, error)
	AddSubject(ctx context.Context, timetableID, subjectID int64) error
	RemoveSubject(ctx context.Context, timetableID, subjectID int64) (bool, error)
	ListSubjects(ctx context.Context, timetableID int64) ([]models.Subject, error)
}

type subjectFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
}

// TimetableService manages saved timetables. Every operation is scoped to the
// owning student; each student keeps at most one timetable.
type TimetableService struct {
	repo      timetableRepository
	subjects  subjectFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService creates a new timetable service.
func NewTimetableService(repo timetableRepository, subjects subjectFinder, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, subjects: subjects, validator: validate, logger: logger}
}

// Create starts a timetable for the student.
func (s *TimetableService) Create(ctx context.Context, studentID string, req dto.CreateTimetableRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	if _, err := s.repo.FindByStudent(ctx, studentID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already has a timetable")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing timetable")
	}

	status := models.TimetableStatus(req.Status)
	if status == "" {
		status = models.TimetableStatusDraft
	}
	timetable := &models.Timetable{
		StudentID: studentID,
		Semester:  req.Semester,
		Status:    status,
	}
	if err := s.repo.Create(ctx, timetable); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable")
	}
	return timetable, nil
}

// Get loads a timetable with its subjects, enforcing ownership.
func (s *TimetableService) Get(ctx context.Context, studentID string, id int64) (*dto.TimetableResponse, error) {
	timetable, err := s.ownedTimetable(ctx, studentID, id)
	if err != nil {
		return nil, err
	}
	return s.withSubjects(ctx, timetable)
}

// GetMine loads the student's own timetable with its subjects.
func (s *TimetableService) GetMine(ctx context.Context, studentID string) (*dto.TimetableResponse, error) {
	timetable, err := s.repo.FindByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return s.withSubjects(ctx, timetable)
}

// Update changes semester or status. Other fields are immutable.
func (s *TimetableService) Update(ctx context.Context, studentID string, id int64, req dto.UpdateTimetableRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	if req.Semester == nil && req.Status == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no valid fields to update")
	}

	timetable, err := s.ownedTimetable(ctx, studentID, id)
	if err != nil {
		return nil, err
	}

	params := models.UpdateTimetableParams{Semester: req.Semester}
	if req.Status != nil {
		status := models.TimetableStatus(*req.Status)
		params.Status = &status
	}
	if err := s.repo.Update(ctx, timetable.ID, params); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable")
	}

	updated, err := s.repo.FindByID(ctx, timetable.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload timetable")
	}
	return updated, nil
}

// Delete removes the timetable and its subject links.
func (s *TimetableService) Delete(ctx context.Context, studentID string, id int64) error {
	timetable, err := s.ownedTimetable(ctx, studentID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, timetable.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	return nil
}

// AddSubject links a catalog subject to the timetable.
func (s *TimetableService) AddSubject(ctx context.Context, studentID string, id int64, req dto.AddTimetableSubjectRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	timetable, err := s.ownedTimetable(ctx, studentID, id)
	if err != nil {
		return err
	}

	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "subject already in timetable or does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	linked, err := s.repo.HasSubject(ctx, timetable.ID, req.SubjectID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check timetable subject")
	}
	if linked {
		return appErrors.Clone(appErrors.ErrConflict, "subject already in timetable or does not exist")
	}

	if err := s.repo.AddSubject(ctx, timetable.ID, req.SubjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add subject to timetable")
	}
	return nil
}

// RemoveSubject unlinks a subject from the timetable.
func (s *TimetableService) RemoveSubject(ctx context.Context, studentID string, id, subjectID int64) error {
	timetable, err := s.ownedTimetable(ctx, studentID, id)
	if err != nil {
		return err
	}

	removed, err := s.repo.RemoveSubject(ctx, timetable.ID, subjectID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove subject from timetable")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "subject not linked to timetable")
	}
	return nil
}

// Subjects returns the subjects linked to the timetable ordered by name.
func (s *TimetableService) Subjects(ctx context.Context, studentID string, id int64) ([]models.Subject, error) {
	timetable, err := s.ownedTimetable(ctx, studentID, id)
	if err != nil {
		return nil, err
	}
	subjects, err := s.repo.ListSubjects(ctx, timetable.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, nil
}

func (s *TimetableService) ownedTimetable(ctx context.Context, studentID string, id int64) (*models.Timetable, error) {
	timetable, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if timetable.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "timetable belongs to another student")
	}
	return timetable, nil
}

func (s *TimetableService) withSubjects(ctx context.Context, timetable *models.Timetable) (*dto.TimetableResponse, error) {
	subjects, err := s.repo.ListSubjects(ctx, timetable.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return &dto.TimetableResponse{Timetable: *timetable, Subjects: subjects}, nil
}
