package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
)

var bookingRowColumns = []string{"entry_id", "plan_id", "obligation_id", "teacher_id", "room_id", "time_block_id", "block_name", "day_of_week", "start_time", "end_time"}

func TestTimetableRepositoryListBookingsExcludingPlan(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows(bookingRowColumns).
		AddRow("entry-9", "plan-0", "ob-9", "teacher-1", "room-1", "block-1", "Block 1", 1, "08:00:00", "10:00:00")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.plan_id <> $1 AND p.status <> 'CLOSED'")).
		WithArgs("plan-1").
		WillReturnRows(rows)

	bookings, err := repo.ListBookingsExcludingPlan(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "entry-9", bookings[0].EntryID)
	assert.Equal(t, 1, bookings[0].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListByPlanPaginates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"id", "plan_id", "obligation_id", "teacher_id", "subject_id", "time_block_id", "room_id",
		"expected_attendance", "modality", "score", "strategy", "created_at",
		"teacher_name", "subject_name", "room_code", "block_name", "day_of_week", "start_time", "end_time"}).
		AddRow("entry-1", "plan-1", "ob-1", "teacher-1", "sub-1", "block-1", "room-1", 20, "IN_PERSON", 0.9, "teacher_priority", time.Now(),
			"Ana", "Chemistry", "A-101", "Block 1", 1, "08:00:00", "10:00:00")
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY b.day_of_week ASC, b.start_time ASC, r.code ASC LIMIT 10 OFFSET 10")).
		WithArgs("plan-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetable_entries WHERE plan_id = $1")).
		WithArgs("plan-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	entries, total, err := repo.ListByPlan(context.Background(), "plan-1", 2, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 11, total)
	assert.Equal(t, "A-101", entries[0].RoomCode)
	assert.Equal(t, "teacher-1", entries[0].TeacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceInsideTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_entries WHERE plan_id = $1")).
		WithArgs("plan-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WithArgs(sqlmock.AnyArg(), "plan-1", "ob-1", "teacher-1", "sub-1", "block-1", "room-1", 20, "IN_PERSON", 0.9, "teacher_priority", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.DeleteByPlan(context.Background(), tx, "plan-1"))
	entries := []models.TimetableEntry{{
		PlanID: "plan-1", ObligationID: "ob-1", TeacherID: "teacher-1", SubjectID: "sub-1",
		TimeBlockID: "block-1", RoomID: "room-1", ExpectedAttendance: 20, Modality: "IN_PERSON", Score: 0.9, Strategy: "teacher_priority",
	}}
	require.NoError(t, repo.InsertBatch(context.Background(), tx, entries))
	require.NoError(t, tx.Commit())
	assert.NotEmpty(t, entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryInsertError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WillReturnError(errors.New("duplicate key"))

	err := repo.InsertBatch(context.Background(), nil, []models.TimetableEntry{{PlanID: "plan-1"}})
	assert.ErrorContains(t, err, "insert timetable entry")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConflictRepositoryRoundTrip(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConflictRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM scheduling_conflicts WHERE plan_id = $1 AND category = $2")).
		WithArgs("plan-1", "ALGORITHM_ASSIGNMENT").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO scheduling_conflicts")).
		WithArgs(sqlmock.AnyArg(), "plan-1", sqlmock.AnyArg(), "ALGORITHM_ASSIGNMENT", "Violations: Capacity: too small", "DETECTED", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.DeleteByPlanAndCategory(context.Background(), nil, "plan-1", "ALGORITHM_ASSIGNMENT"))
	obligation := "ob-1"
	require.NoError(t, repo.InsertBatch(context.Background(), nil, []models.SchedulingConflict{{
		PlanID: "plan-1", ObligationID: &obligation, Category: "ALGORITHM_ASSIGNMENT", Description: "Violations: Capacity: too small",
	}}))

	rows := sqlmock.NewRows([]string{"id", "plan_id", "obligation_id", "category", "description", "status", "detected_at"}).
		AddRow("conf-1", "plan-1", "ob-1", "ALGORITHM_ASSIGNMENT", "Violations: Capacity: too small", "DETECTED", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduling_conflicts WHERE plan_id = $1 ORDER BY detected_at DESC, id ASC")).
		WithArgs("plan-1").
		WillReturnRows(rows)

	conflicts, err := repo.ListByPlan(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	require.NotNil(t, conflicts[0].ObligationID)
	assert.Equal(t, "ob-1", *conflicts[0].ObligationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), models.AuditActionSchedulingCommit, models.AuditResourceRun, sqlmock.AnyArg(), "req-1", sqlmock.AnyArg(), "127.0.0.1", "test", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), &models.AuditLog{
		Action:    models.AuditActionSchedulingCommit,
		Resource:  models.AuditResourceRun,
		RequestID: "req-1",
		IPAddress: "127.0.0.1",
		UserAgent: "test",
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
