package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
)

func TestPlanRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "period_id", "status", "notes", "created_at", "updated_at"}).
		AddRow("plan-1", "2025-1", "period-1", "DRAFT", "", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, period_id, status, notes, created_at, updated_at FROM academic_plans WHERE id = $1")).
		WithArgs("plan-1").
		WillReturnRows(rows)

	plan, err := repo.FindByID(context.Background(), "plan-1")
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusDraft, plan.Status)
	assert.True(t, plan.Status.Schedulable())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_plans SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(models.PlanStatusReview, sqlmock.AnyArg(), "plan-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), nil, "plan-1", models.PlanStatusReview))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_plans SET status")).
		WithArgs(models.PlanStatusReview, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateStatus(context.Background(), nil, "missing", models.PlanStatusReview)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
