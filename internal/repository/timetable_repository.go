package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studygrid/scheduler-api/internal/models"
)

// TimetableRepository handles persistence for saved timetables and their
// subject membership.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new repository instance.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// Create persists a new timetable and fills in the generated id.
func (r *TimetableRepository) Create(ctx context.Context, timetable *models.Timetable) error {
	now := time.Now().UTC()
	if timetable.CreatedAt.IsZero() {
		timetable.CreatedAt = now
	}
	timetable.UpdatedAt = now
	const query = `INSERT INTO timetables (student_id, semester, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &timetable.ID, query,
		timetable.StudentID, timetable.Semester, timetable.Status,
		timetable.CreatedAt, timetable.UpdatedAt); err != nil {
		return fmt.Errorf("create timetable: %w", err)
	}
	return nil
}

// FindByID returns a timetable by id.
func (r *TimetableRepository) FindByID(ctx context.Context, id int64) (*models.Timetable, error) {
	const query = `SELECT id, student_id, semester, status, created_at, updated_at FROM timetables WHERE id = $1`
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, query, id); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// FindByStudent returns the student's timetable. Each student keeps at most
// one, so sql.ErrNoRows means none exists yet.
func (r *TimetableRepository) FindByStudent(ctx context.Context, studentID string) (*models.Timetable, error) {
	const query = `SELECT id, student_id, semester, status, created_at, updated_at FROM timetables WHERE student_id = $1`
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, query, studentID); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// Update applies the provided field changes. At least one field must be set.
func (r *TimetableRepository) Update(ctx context.Context, id int64, params models.UpdateTimetableParams) error {
	sets := []string{}
	args := []interface{}{}
	if params.Semester != nil {
		sets = append(sets, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, *params.Semester)
	}
	if params.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *params.Status)
	}
	if len(sets) == 0 {
		return fmt.Errorf("update timetable: no fields to update")
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE timetables SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update timetable: %w", err)
	}
	return nil
}

// Delete removes a timetable together with its subject links.
func (r *TimetableRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM timetable_subjects WHERE timetable_id = $1`, id); err != nil {
		return fmt.Errorf("delete timetable subjects: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM timetables WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	return tx.Commit()
}

// HasSubject reports whether the subject is already linked to the timetable.
func (r *TimetableRepository) HasSubject(ctx context.Context, timetableID, subjectID int64) (bool, error) {
	const query = `SELECT COUNT(*) FROM timetable_subjects WHERE timetable_id = $1 AND subject_id = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, timetableID, subjectID); err != nil {
		return false, fmt.Errorf("check timetable subject: %w", err)
	}
	return count > 0, nil
}

// AddSubject links a subject to the timetable.
func (r *TimetableRepository) AddSubject(ctx context.Context, timetableID, subjectID int64) error {
	const query = `INSERT INTO timetable_subjects (timetable_id, subject_id, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, timetableID, subjectID, time.Now().UTC()); err != nil {
		return fmt.Errorf("add timetable subject: %w", err)
	}
	return nil
}

// RemoveSubject unlinks a subject and reports whether a row was removed.
func (r *TimetableRepository) RemoveSubject(ctx context.Context, timetableID, subjectID int64) (bool, error) {
	const query = `DELETE FROM timetable_subjects WHERE timetable_id = $1 AND subject_id = $2`
	res, err := r.db.ExecContext(ctx, query, timetableID, subjectID)
	if err != nil {
		return false, fmt.Errorf("remove timetable subject: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove timetable subject: %w", err)
	}
	return affected > 0, nil
}

// ListSubjects returns the subjects linked to a timetable ordered by name.
func (r *TimetableRepository) ListSubjects(ctx context.Context, timetableID int64) ([]models.Subject, error) {
	query := fmt.Sprintf(`SELECT %s FROM subjects s
        INNER JOIN timetable_subjects ts ON ts.subject_id = s.id
        WHERE ts.timetable_id = $1 ORDER BY s.name`, prefixColumns("s", subjectColumns))
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, timetableID); err != nil {
		return nil, fmt.Errorf("list timetable subjects: %w", err)
	}
	return subjects, nil
}

// prefixColumns qualifies a comma separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = alias + "." + part
	}
	return strings.Join(parts, ", ")
}
