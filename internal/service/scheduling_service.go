package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studygrid/scheduler-api/internal/dto"
	"github.com/studygrid/scheduler-api/internal/models"
	"github.com/studygrid/scheduler-api/internal/scheduling"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
)

// SchedulingConfig carries scheduler tuning loaded from the environment.
// Zero values fall back to the engine default subject count and a short
// result cache.
type SchedulingConfig struct {
	DefaultSubjectCount int
	ResultCacheTTL      time.Duration
}

type catalogProvider interface {
	CatalogSnapshot(ctx context.Context) ([]models.Subject, error)
}

type interestProvider interface {
	InterestMap(ctx context.Context, studentID string) (map[string]int, error)
}

// SchedulingService validates schedule requests, snapshots catalog and
// preference state, and runs the build pipeline.
type SchedulingService struct {
	catalog   catalogProvider
	interest  interestProvider
	builder   *scheduling.Builder
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SchedulingConfig
}

// NewSchedulingService creates a new scheduling service.
func NewSchedulingService(catalog catalogProvider, interest interestProvider, builder *scheduling.Builder, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg SchedulingConfig) *SchedulingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if builder == nil {
		builder = scheduling.NewBuilder(logger)
	}
	if cfg.DefaultSubjectCount <= 0 {
		cfg.DefaultSubjectCount = scheduling.DefaultSubjectCount
	}
	if cfg.ResultCacheTTL <= 0 {
		cfg.ResultCacheTTL = 5 * time.Minute
	}
	return &SchedulingService{
		catalog:   catalog,
		interest:  interest,
		builder:   builder,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// BuildSchedule produces a schedule for the student. Identical requests are
// served from cache until the catalog or the student's preferences change;
// the returned flag reports whether the result came from cache.
func (s *SchedulingService) BuildSchedule(ctx context.Context, studentID string, req dto.BuildScheduleRequest) (*scheduling.Result, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	availability, err := s.mapAvailability(req)
	if err != nil {
		return nil, false, err
	}

	cacheKey, err := s.cacheKey(studentID, req)
	if err == nil {
		var cached scheduling.Result
		if hit, cacheErr := s.cache.Get(ctx, cacheKey, &cached); cacheErr == nil && hit {
			return &cached, true, nil
		}
	}

	loadStart := time.Now()
	catalogRows, err := s.catalog.CatalogSnapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	s.metrics.ObserveDBQuery("catalog_snapshot", time.Since(loadStart))

	loadStart = time.Now()
	interest, err := s.interest.InterestMap(ctx, studentID)
	if err != nil {
		return nil, false, err
	}
	s.metrics.ObserveDBQuery("interest_map", time.Since(loadStart))

	subjectCount := req.SubjectCount
	if subjectCount <= 0 {
		subjectCount = s.cfg.DefaultSubjectCount
	}

	strategy := scheduling.ParseStrategy(req.PreferenceStrategy)
	engineReq := scheduling.Request{
		StudentID:              studentID,
		SubjectCount:           subjectCount,
		Strategy:               strategy,
		PrioritizeDependencies: req.PrioritizeDependencies,
		Availability:           availability,
		Catalog:                catalogEntries(catalogRows),
		Interest:               interest,
		Uploaded:               uploadedSubjects(req.UploadedSubjects),
	}

	start := time.Now()
	result := s.builder.Build(engineReq)
	s.metrics.ObserveScheduleBuild(string(strategy), result.Success, time.Since(start))

	s.logger.Info("schedule built",
		zap.String("student_id", studentID),
		zap.String("strategy", string(strategy)),
		zap.Bool("success", result.Success),
		zap.Int("subjects", result.TotalSubjects))

	if result.Success && cacheKey != "" {
		if cacheErr := s.cache.Set(ctx, cacheKey, result, s.cfg.ResultCacheTTL); cacheErr != nil {
			s.logger.Warn("failed to cache schedule result", zap.Error(cacheErr))
		}
	}

	return &result, false, nil
}

// Strategies lists the supported ranking strategies.
func (s *SchedulingService) Strategies() []dto.StrategyInfo {
	known := scheduling.KnownStrategies()
	infos := make([]dto.StrategyInfo, 0, len(known))
	for _, strategy := range known {
		infos = append(infos, dto.StrategyInfo{
			Value:       string(strategy),
			Description: strategy.Description(),
			Default:     strategy == scheduling.DefaultStrategy,
		})
	}
	return infos
}

// mapAvailability converts the wire day schedule into engine availability.
// Day names and clock values are validated here; the engine itself silently
// ignores days it cannot match.
func (s *SchedulingService) mapAvailability(req dto.BuildScheduleRequest) ([]scheduling.DayAvailability, error) {
	availability := make([]scheduling.DayAvailability, 0, len(req.WeeklySchedule))
	for _, day := range req.WeeklySchedule {
		weekday := scheduling.ParseWeekday(day.Day)
		if !weekday.IsCanonical() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day name: %s", day.Day))
		}

		windows := make([]scheduling.TimeWindow, 0, len(day.TimeSlots))
		for _, slot := range day.TimeSlots {
			startClock, err := scheduling.ParseClockTime(slot.Start)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid time %q for %s", slot.Start, day.Day))
			}
			endClock, err := scheduling.ParseClockTime(slot.End)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid time %q for %s", slot.End, day.Day))
			}
			if endClock <= startClock {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("time window end must be after start on %s", day.Day))
			}
			windows = append(windows, scheduling.TimeWindow{Start: startClock, End: endClock})
		}

		available := day.Available
		if weekday == scheduling.Saturday && !req.IncludeSaturday {
			available = false
		}
		availability = append(availability, scheduling.DayAvailability{
			Day:       weekday,
			Available: available,
			Windows:   windows,
		})
	}
	return availability, nil
}

// cacheKey digests the full request so any change in availability, strategy,
// or uploads produces a distinct entry.
func (s *SchedulingService) cacheKey(studentID string, req dto.BuildScheduleRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(payload)
	return fmt.Sprintf("schedules:%s:%s", studentID, hex.EncodeToString(digest[:8])), nil
}

func catalogEntries(rows []models.Subject) []scheduling.CatalogEntry {
	entries := make([]scheduling.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, scheduling.CatalogEntry{
			ID:            row.ID,
			Name:          row.Name,
			Code:          row.Code,
			Category:      row.Category,
			Credits:       row.Credits,
			Difficulty:    row.DifficultyLevel,
			Prerequisites: row.Prerequisites,
			Schedule:      row.Schedule,
			TeacherName:   row.TeacherName,
			MaxStudents:   row.MaxStudents,
			Description:   row.Description,
		})
	}
	return entries
}

func uploadedSubjects(uploads []dto.UploadedSubject) []scheduling.UploadedSubject {
	if len(uploads) == 0 {
		return nil
	}
	subjects := make([]scheduling.UploadedSubject, 0, len(uploads))
	for _, upload := range uploads {
		subjects = append(subjects, scheduling.UploadedSubject{
			Name:       upload.Name,
			Code:       upload.Code,
			Category:   upload.Category,
			Credits:    upload.Credits,
			Difficulty: upload.Difficulty,
			Schedule:   upload.Schedule,
		})
	}
	return subjects
}
