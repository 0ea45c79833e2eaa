package service

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type timetableWriter interface {
	DeleteByPlan(ctx context.Context, exec sqlx.ExtContext, planID string) error
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.TimetableEntry) error
}

type conflictWriter interface {
	DeleteByPlanAndCategory(ctx context.Context, exec sqlx.ExtContext, planID, category string) error
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, conflicts []models.SchedulingConflict) error
}

// TimetablePersister replaces the committed timetable of a plan with a run
// result in a single transaction. Committing the same result twice leaves the
// same rows behind.
type TimetablePersister struct {
	tx        txProvider
	entries   timetableWriter
	conflicts conflictWriter
	logger    *zap.Logger
}

// NewTimetablePersister constructs the persister.
func NewTimetablePersister(tx txProvider, entries timetableWriter, conflicts conflictWriter, logger *zap.Logger) *TimetablePersister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetablePersister{tx: tx, entries: entries, conflicts: conflicts, logger: logger}
}

// Replace implements scheduler.Persister.
func (p *TimetablePersister) Replace(ctx context.Context, planID string, result scheduler.Result) (err error) {
	tx, err := p.tx.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = p.entries.DeleteByPlan(ctx, tx, planID); err != nil {
		return err
	}
	if err = p.entries.InsertBatch(ctx, tx, entriesFromResult(planID, result)); err != nil {
		return err
	}
	category := string(scheduler.CategoryAlgorithmAssignment)
	if err = p.conflicts.DeleteByPlanAndCategory(ctx, tx, planID, category); err != nil {
		return err
	}
	if err = p.conflicts.InsertBatch(ctx, tx, conflictsFromResult(planID, result.Conflicts)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}

	p.logger.Info("timetable replaced",
		zap.String("plan_id", planID),
		zap.Int("entries", len(result.Assignments)),
		zap.Int("conflicts", len(result.Conflicts)))
	return nil
}

func entriesFromResult(planID string, result scheduler.Result) []models.TimetableEntry {
	entries := make([]models.TimetableEntry, 0, len(result.Assignments))
	for _, c := range result.Assignments {
		modality := c.Modality
		if modality == "" {
			modality = scheduler.ModalityInPerson
		}
		entries = append(entries, models.TimetableEntry{
			PlanID:             planID,
			ObligationID:       c.Obligation.ID,
			TeacherID:          c.Obligation.TeacherID,
			SubjectID:          c.Obligation.SubjectID,
			TimeBlockID:        c.Block.ID,
			RoomID:             c.Room.ID,
			ExpectedAttendance: c.Attendance,
			Modality:           string(modality),
			Score:              c.Score,
			Strategy:           string(result.Strategy),
		})
	}
	return entries
}

func conflictsFromResult(planID string, conflicts []scheduler.Conflict) []models.SchedulingConflict {
	records := make([]models.SchedulingConflict, 0, len(conflicts))
	for _, c := range conflicts {
		record := models.SchedulingConflict{
			PlanID:      planID,
			Category:    string(c.Category),
			Description: c.Description,
			Status:      models.ConflictStatusDetected,
		}
		if c.ObligationID != "" {
			obligationID := c.ObligationID
			record.ObligationID = &obligationID
		}
		records = append(records, record)
	}
	return records
}
