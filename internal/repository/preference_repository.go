package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studygrid/scheduler-api/internal/models"
)

// PreferenceRepository handles persistence for subject preferences.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates a new repository instance.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// ListByStudent returns all preferences recorded by a student.
func (r *PreferenceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.SubjectPreference, error) {
	const query = `SELECT id, student_id, subject_name, interest_level, priority, notes, status, created_at, updated_at
        FROM subject_preferences WHERE student_id = $1 ORDER BY priority DESC, subject_name`
	var prefs []models.SubjectPreference
	if err := r.db.SelectContext(ctx, &prefs, query, studentID); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return prefs, nil
}

// InterestByStudent returns the subject name to interest level mapping the
// scheduling engine consumes.
func (r *PreferenceRepository) InterestByStudent(ctx context.Context, studentID string) (map[string]int, error) {
	const query = `SELECT subject_name, interest_level FROM subject_preferences WHERE student_id = $1`
	rows := []struct {
		SubjectName   string `db:"subject_name"`
		InterestLevel int    `db:"interest_level"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("load interest map: %w", err)
	}
	interest := make(map[string]int, len(rows))
	for _, row := range rows {
		interest[row.SubjectName] = row.InterestLevel
	}
	return interest, nil
}

// FindByID returns a single preference row.
func (r *PreferenceRepository) FindByID(ctx context.Context, id int64) (*models.SubjectPreference, error) {
	const query = `SELECT id, student_id, subject_name, interest_level, priority, notes, status, created_at, updated_at
        FROM subject_preferences WHERE id = $1`
	var pref models.SubjectPreference
	if err := r.db.GetContext(ctx, &pref, query, id); err != nil {
		return nil, err
	}
	return &pref, nil
}

// Upsert inserts a preference or refreshes the existing row for the same
// student and subject name.
func (r *PreferenceRepository) Upsert(ctx context.Context, pref *models.SubjectPreference) error {
	now := time.Now().UTC()
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = now
	}
	pref.UpdatedAt = now
	const query = `INSERT INTO subject_preferences (student_id, subject_name, interest_level, priority, notes, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (student_id, subject_name) DO UPDATE SET
            interest_level = EXCLUDED.interest_level,
            priority = EXCLUDED.priority,
            notes = EXCLUDED.notes,
            status = EXCLUDED.status,
            updated_at = EXCLUDED.updated_at
        RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query,
		pref.StudentID, pref.SubjectName, pref.InterestLevel, pref.Priority,
		pref.Notes, pref.Status, pref.CreatedAt, pref.UpdatedAt)
	if err := row.Scan(&pref.ID, &pref.CreatedAt); err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// Delete removes a preference owned by the student.
func (r *PreferenceRepository) Delete(ctx context.Context, id int64, studentID string) (bool, error) {
	const query = `DELETE FROM subject_preferences WHERE id = $1 AND student_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, studentID)
	if err != nil {
		return false, fmt.Errorf("delete preference: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete preference: %w", err)
	}
	return affected > 0, nil
}
