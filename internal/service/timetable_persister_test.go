package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-scheduler-api/internal/repository"
	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
)

func persistableResult() scheduler.Result {
	block, _ := scheduler.NewTimeBlock("b1", "Block 1", scheduler.Monday, scheduler.NewClock(8, 0), scheduler.NewClock(10, 0))
	return scheduler.Result{
		Success:  true,
		Strategy: scheduler.StrategyTeacherPriority,
		Assignments: []scheduler.Candidate{{
			Obligation: scheduler.Obligation{ID: "o1", TeacherID: "t1", SubjectID: "s1"},
			Block:      block,
			Room:       scheduler.Room{ID: "r1", Capacity: 30},
			Attendance: 20,
			Score:      0.9,
		}},
		Conflicts: []scheduler.Conflict{{
			PlanID:       "plan-1",
			Category:     scheduler.CategoryAlgorithmAssignment,
			Description:  "Violations: Capacity: attendance 35 exceeds capacity 20",
			ObligationID: "o2",
		}},
	}
}

func TestTimetablePersisterReplacesInOneTransaction(t *testing.T) {
	db, mock := newTxProviderMock(t)
	persister := NewTimetablePersister(db, repository.NewTimetableRepository(db), repository.NewConflictRepository(db), nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_entries WHERE plan_id = $1")).
		WithArgs("plan-1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WithArgs(sqlmock.AnyArg(), "plan-1", "o1", "t1", "s1", "b1", "r1", 20, "IN_PERSON", 0.9, "teacher_priority", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM scheduling_conflicts WHERE plan_id = $1 AND category = $2")).
		WithArgs("plan-1", "ALGORITHM_ASSIGNMENT").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO scheduling_conflicts")).
		WithArgs(sqlmock.AnyArg(), "plan-1", sqlmock.AnyArg(), "ALGORITHM_ASSIGNMENT", sqlmock.AnyArg(), "DETECTED", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, persister.Replace(context.Background(), "plan-1", persistableResult()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetablePersisterRollsBackOnFailure(t *testing.T) {
	db, mock := newTxProviderMock(t)
	persister := NewTimetablePersister(db, repository.NewTimetableRepository(db), repository.NewConflictRepository(db), nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_entries WHERE plan_id = $1")).
		WithArgs("plan-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WillReturnError(errors.New("foreign key violation"))
	mock.ExpectRollback()

	err := persister.Replace(context.Background(), "plan-1", persistableResult())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetablePersisterThroughOrchestrator(t *testing.T) {
	db, mock := newTxProviderMock(t)
	persister := NewTimetablePersister(db, repository.NewTimetableRepository(db), repository.NewConflictRepository(db), nil)
	orchestrator := scheduler.NewOrchestrator(scheduler.StrategyTeacherPriority, nil, nil, persister, nil)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	assert.False(t, orchestrator.Commit(context.Background(), "plan-1", persistableResult()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
