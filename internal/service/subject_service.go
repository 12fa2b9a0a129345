package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studygrid/scheduler-api/internal/models"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
)

const (
	subjectCatalogCacheKey    = "subjects:catalog"
	subjectCategoriesCacheKey = "subjects:categories"
	subjectCachePattern       = "subjects:*"
	scheduleCachePattern      = "schedules:*"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	ListActive(ctx context.Context) ([]models.Subject, error)
	Categories(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Deactivate(ctx context.Context, id int64) error
}

// CreateSubjectRequest captures fields for creating subjects.
type CreateSubjectRequest struct {
	Name            string `json:"name" validate:"required"`
	Code            string `json:"code" validate:"required"`
	Description     string `json:"description"`
	Category        string `json:"category" validate:"required"`
	DifficultyLevel int    `json:"difficulty_level" validate:"required,min=1,max=5"`
	Credits         int    `json:"credits" validate:"required,min=1,max=10"`
	Prerequisites   string `json:"prerequisites"`
	TeacherName     string `json:"teacher_name"`
	MaxStudents     int    `json:"max_students" validate:"omitempty,min=1"`
	Semester        string `json:"semester"`
	Schedule        string `json:"schedule" validate:"required"`
}

// UpdateSubjectRequest modifies subject fields.
type UpdateSubjectRequest struct {
	Name            string `json:"name" validate:"required"`
	Code            string `json:"code" validate:"required"`
	Description     string `json:"description"`
	Category        string `json:"category" validate:"required"`
	DifficultyLevel int    `json:"difficulty_level" validate:"required,min=1,max=5"`
	Credits         int    `json:"credits" validate:"required,min=1,max=10"`
	Prerequisites   string `json:"prerequisites"`
	TeacherName     string `json:"teacher_name"`
	MaxStudents     int    `json:"max_students" validate:"omitempty,min=1"`
	Semester        string `json:"semester"`
	Schedule        string `json:"schedule" validate:"required"`
	IsActive        *bool  `json:"is_active"`
}

// SubjectService handles catalog workflows.
type SubjectService struct {
	repo       subjectRepository
	cache      *CacheService
	catalogTTL time.Duration
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewSubjectService creates a new subject service. A non-positive catalogTTL
// falls back to ten minutes.
func NewSubjectService(repo subjectRepository, cache *CacheService, catalogTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalogTTL <= 0 {
		catalogTTL = 10 * time.Minute
	}
	return &SubjectService{repo: repo, cache: cache, catalogTTL: catalogTTL, validator: validate, logger: logger}
}

// List returns paginated subjects.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return subjects, pagination, nil
}

// CatalogSnapshot returns every active subject ordered by category then name.
// The snapshot feeds schedule builds, so it is cached until the catalog changes.
func (s *SubjectService) CatalogSnapshot(ctx context.Context) ([]models.Subject, error) {
	var cached []models.Subject
	if hit, err := s.cache.Get(ctx, subjectCatalogCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	subjects, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject catalog")
	}

	if err := s.cache.Set(ctx, subjectCatalogCacheKey, subjects, s.catalogTTL); err != nil {
		s.logger.Warn("failed to cache subject catalog", zap.Error(err))
	}
	return subjects, nil
}

// Categories returns the distinct active categories.
func (s *SubjectService) Categories(ctx context.Context) ([]string, error) {
	var cached []string
	if hit, err := s.cache.Get(ctx, subjectCategoriesCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}

	if err := s.cache.Set(ctx, subjectCategoriesCacheKey, categories, s.catalogTTL); err != nil {
		s.logger.Warn("failed to cache subject categories", zap.Error(err))
	}
	return categories, nil
}

// Get returns subject by identifier.
func (s *SubjectService) Get(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// Create adds a new subject ensuring code uniqueness.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))

	exists, err := s.repo.ExistsByCode(ctx, req.Code, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists")
	}

	subject := &models.Subject{
		Name:            req.Name,
		Code:            req.Code,
		Description:     req.Description,
		Category:        req.Category,
		DifficultyLevel: req.DifficultyLevel,
		Credits:         req.Credits,
		Prerequisites:   req.Prerequisites,
		TeacherName:     req.TeacherName,
		MaxStudents:     req.MaxStudents,
		Semester:        req.Semester,
		Schedule:        req.Schedule,
		IsActive:        true,
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}

	s.invalidateCatalogCache(ctx)
	return subject, nil
}

// Update modifies an existing subject.
func (s *SubjectService) Update(ctx context.Context, id int64, req UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))

	exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists")
	}

	subject.Name = req.Name
	subject.Code = req.Code
	subject.Description = req.Description
	subject.Category = req.Category
	subject.DifficultyLevel = req.DifficultyLevel
	subject.Credits = req.Credits
	subject.Prerequisites = req.Prerequisites
	subject.TeacherName = req.TeacherName
	subject.MaxStudents = req.MaxStudents
	subject.Semester = req.Semester
	subject.Schedule = req.Schedule
	if req.IsActive != nil {
		subject.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}

	s.invalidateCatalogCache(ctx)
	return subject, nil
}

// Deactivate retires a subject from the catalog.
func (s *SubjectService) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate subject")
	}

	s.invalidateCatalogCache(ctx)
	return nil
}

// invalidateCatalogCache drops the catalog listings and every cached
// schedule result. Builds are ranked against the catalog snapshot, so any
// subject write can change what every student would be offered.
func (s *SubjectService) invalidateCatalogCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, subjectCachePattern); err != nil {
		s.logger.Warn("failed to invalidate subject cache", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, scheduleCachePattern); err != nil {
		s.logger.Warn("failed to invalidate schedule cache", zap.Error(err))
	}
}
