package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
)

// TimeBlockRepository reads the weekly block grid.
type TimeBlockRepository struct {
	db *sqlx.DB
}

// NewTimeBlockRepository constructs the repository.
func NewTimeBlockRepository(db *sqlx.DB) *TimeBlockRepository {
	return &TimeBlockRepository{db: db}
}

// ListActive returns active blocks ordered by day and start time.
func (r *TimeBlockRepository) ListActive(ctx context.Context) ([]models.TimeBlock, error) {
	const query = `SELECT id, name, day_of_week, start_time, end_time, active FROM time_blocks WHERE active = TRUE ORDER BY day_of_week ASC, start_time ASC`
	var blocks []models.TimeBlock
	if err := r.db.SelectContext(ctx, &blocks, query); err != nil {
		return nil, fmt.Errorf("list time blocks: %w", err)
	}
	return blocks, nil
}
