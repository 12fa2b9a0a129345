package scheduling

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultSubjectCount is the target schedule size when a request leaves it
// unset.
const DefaultSubjectCount = 5

// Request is the immutable input aggregate for one build. Catalog and
// Interest are read-only snapshots taken by the caller; the engine performs
// no I/O of its own.
type Request struct {
	StudentID              string
	SubjectCount           int
	Strategy               Strategy
	PrioritizeDependencies bool
	Availability           []DayAvailability
	Catalog                []CatalogEntry
	Interest               map[string]int
	Uploaded               []UploadedSubject
}

// Result is the structured outcome of a build. Failure never propagates as a
// panic or error value; callers always receive a well-formed Result.
type Result struct {
	Success       bool      `json:"success"`
	Schedule      []Subject `json:"schedule"`
	Analysis      *Analysis `json:"analysis,omitempty"`
	TotalSubjects int       `json:"total_subjects"`
	TotalCredits  int       `json:"total_credits"`
	Error         string    `json:"error,omitempty"`
	GeneratedAt   time.Time `json:"timestamp"`
}

// Builder runs the scheduling pipeline: assemble, filter, rank, select,
// analyze. It is stateless apart from its logger and safe for concurrent use.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder constructs a Builder. A nil logger is replaced with a no-op one.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// Build produces a conflict-free schedule for the request. Identical requests
// with identical snapshots yield identical results apart from the timestamp.
// An unexpected failure in any stage is converted into a failed Result
// instead of crashing the caller; an under-filled or empty schedule is a
// normal success with warnings.
func (b *Builder) Build(req Request) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("schedule build panicked", zap.Any("cause", r), zap.String("student_id", req.StudentID))
			result = Result{
				Success:     false,
				Error:       fmt.Sprintf("Failed to create schedule: %v", r),
				GeneratedAt: time.Now(),
			}
		}
	}()

	target := req.SubjectCount
	if target <= 0 {
		target = DefaultSubjectCount
	}

	subjects, parseWarnings := AssembleCatalog(req.Catalog, req.Uploaded)
	for _, warning := range parseWarnings {
		b.logger.Warn("schedule text anomaly", zap.String("detail", warning), zap.String("student_id", req.StudentID))
	}

	compatible := FilterCompatible(subjects, req.Availability)
	ranked := req.Strategy.Rank(compatible, RankContext{SubjectCount: target, Interest: req.Interest})
	schedule := SelectConflictFree(ranked, target, req.PrioritizeDependencies)
	analysis := Analyze(schedule, target)

	return Result{
		Success:       true,
		Schedule:      schedule,
		Analysis:      &analysis,
		TotalSubjects: len(schedule),
		TotalCredits:  analysis.TotalCredits,
		GeneratedAt:   time.Now(),
	}
}
