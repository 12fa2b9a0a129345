package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studygrid/scheduler-api/internal/models"
)

func newPreferenceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPreferenceRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newPreferenceMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "subject_name", "interest_level", "priority", "notes", "status", "created_at", "updated_at"}).
		AddRow(1, "student-1", "Calculus I", 5, 2, "core requirement", "interested", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, subject_name, interest_level, priority, notes, status, created_at, updated_at FROM subject_preferences WHERE student_id = $1 ORDER BY priority DESC, subject_name")).
		WithArgs("student-1").
		WillReturnRows(rows)

	prefs, err := repo.ListByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, "Calculus I", prefs[0].SubjectName)
	assert.Equal(t, 5, prefs[0].InterestLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepositoryInterestByStudent(t *testing.T) {
	db, mock, cleanup := newPreferenceMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	rows := sqlmock.NewRows([]string{"subject_name", "interest_level"}).
		AddRow("Calculus I", 5).
		AddRow("Physics I", 2)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT subject_name, interest_level FROM subject_preferences WHERE student_id = $1")).
		WithArgs("student-1").
		WillReturnRows(rows)

	interest, err := repo.InterestByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Calculus I": 5, "Physics I": 2}, interest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newPreferenceMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	created := time.Now().Add(-time.Hour)
	mock.ExpectQuery("INSERT INTO subject_preferences").
		WithArgs("student-1", "Calculus I", 4, 1, "", models.PreferenceStatusInterested, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), created))

	pref := &models.SubjectPreference{
		StudentID:     "student-1",
		SubjectName:   "Calculus I",
		InterestLevel: 4,
		Priority:      1,
		Status:        models.PreferenceStatusInterested,
	}
	require.NoError(t, repo.Upsert(context.Background(), pref))
	assert.Equal(t, int64(9), pref.ID)
	assert.WithinDuration(t, created, pref.CreatedAt, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newPreferenceMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subject_preferences WHERE id = $1 AND student_id = $2")).
		WithArgs(int64(9), "student-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.Delete(context.Background(), 9, "student-1")
	require.NoError(t, err)
	assert.True(t, removed)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subject_preferences WHERE id = $1 AND student_id = $2")).
		WithArgs(int64(9), "student-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err = repo.Delete(context.Background(), 9, "student-2")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
