package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
)

// ConflictRepository persists scheduling conflict records.
type ConflictRepository struct {
	db *sqlx.DB
}

// NewConflictRepository constructs the repository.
func NewConflictRepository(db *sqlx.DB) *ConflictRepository {
	return &ConflictRepository{db: db}
}

func (r *ConflictRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByPlan returns the conflicts recorded for a plan, newest first.
func (r *ConflictRepository) ListByPlan(ctx context.Context, planID string) ([]models.SchedulingConflict, error) {
	const query = `SELECT id, plan_id, obligation_id, category, description, status, detected_at
FROM scheduling_conflicts WHERE plan_id = $1 ORDER BY detected_at DESC, id ASC`
	var conflicts []models.SchedulingConflict
	if err := r.db.SelectContext(ctx, &conflicts, query, planID); err != nil {
		return nil, fmt.Errorf("list scheduling conflicts: %w", err)
	}
	return conflicts, nil
}

// DeleteByPlanAndCategory drops the conflicts of one category, typically the
// ones produced by a previous scheduling run.
func (r *ConflictRepository) DeleteByPlanAndCategory(ctx context.Context, exec sqlx.ExtContext, planID, category string) error {
	const query = `DELETE FROM scheduling_conflicts WHERE plan_id = $1 AND category = $2`
	if _, err := r.exec(exec).ExecContext(ctx, query, planID, category); err != nil {
		return fmt.Errorf("delete scheduling conflicts: %w", err)
	}
	return nil
}

// InsertBatch writes conflict records.
func (r *ConflictRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, conflicts []models.SchedulingConflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO scheduling_conflicts (id, plan_id, obligation_id, category, description, status, detected_at)
VALUES (:id, :plan_id, :obligation_id, :category, :description, :status, :detected_at)`

	for i := range conflicts {
		conflict := &conflicts[i]
		if conflict.ID == "" {
			conflict.ID = uuid.NewString()
		}
		if conflict.Status == "" {
			conflict.Status = models.ConflictStatusDetected
		}
		if conflict.DetectedAt.IsZero() {
			conflict.DetectedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, conflict); err != nil {
			return fmt.Errorf("insert scheduling conflict: %w", err)
		}
	}
	return nil
}
