package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTeacherPreferenceRepositoryListAndUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherPreferenceRepository(db)

	mock.ExpectExec("INSERT INTO teacher_preferences").
		WithArgs(sqlmock.AnyArg(), "teacher-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), &models.TeacherPreference{
		TeacherID:   "teacher-1",
		Unavailable: types.JSONText(`[{"day_of_week":"MONDAY","time_range":"08:00-10:00"}]`),
	})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "preferred", "unavailable", "updated_at"}).
		AddRow("pref-1", "teacher-1", `[]`, `[{"day_of_week":"MONDAY","time_range":"08:00-10:00"}]`, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, preferred, unavailable, updated_at FROM teacher_preferences WHERE teacher_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	prefs, err := repo.ListByTeachers(context.Background(), []string{"teacher-1", "teacher-2"})
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, "pref-1", prefs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherPreferenceRepositorySkipsEmptyLookup(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherPreferenceRepository(db)

	prefs, err := repo.ListByTeachers(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, prefs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
