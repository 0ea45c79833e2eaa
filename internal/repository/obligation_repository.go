package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
)

// ObligationRepository reads the teaching obligations of a plan.
type ObligationRepository struct {
	db *sqlx.DB
}

// NewObligationRepository constructs the repository.
func NewObligationRepository(db *sqlx.DB) *ObligationRepository {
	return &ObligationRepository{db: db}
}

// ListActiveByPlan returns active obligations joined with their teacher and subject.
func (r *ObligationRepository) ListActiveByPlan(ctx context.Context, planID string) ([]models.TeachingObligation, error) {
	const query = `SELECT o.id, o.plan_id, o.teacher_id, t.full_name AS teacher_name, o.subject_id, s.name AS subject_name,
s.kind AS subject_kind, s.level AS subject_level, o.weekly_hours, o.expected_attendance, o.active
FROM teaching_obligations o
JOIN teachers t ON t.id = o.teacher_id
JOIN subjects s ON s.id = o.subject_id
WHERE o.plan_id = $1 AND o.active = TRUE
ORDER BY t.full_name ASC, o.id ASC`
	var obligations []models.TeachingObligation
	if err := r.db.SelectContext(ctx, &obligations, query, planID); err != nil {
		return nil, fmt.Errorf("list teaching obligations: %w", err)
	}
	return obligations, nil
}
