package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
)

// TimetableRepository persists committed timetable entries.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const bookingColumns = `e.id AS entry_id, e.plan_id, e.obligation_id, e.teacher_id, e.room_id, e.time_block_id,
b.name AS block_name, b.day_of_week, b.start_time, b.end_time
FROM timetable_entries e
JOIN time_blocks b ON b.id = e.time_block_id`

// ListBookingsExcludingPlan returns the occupancy of every open plan except the
// one being scheduled.
func (r *TimetableRepository) ListBookingsExcludingPlan(ctx context.Context, planID string) ([]models.TimetableBooking, error) {
	const query = `SELECT ` + bookingColumns + `
JOIN academic_plans p ON p.id = e.plan_id
WHERE e.plan_id <> $1 AND p.status <> 'CLOSED'`
	var bookings []models.TimetableBooking
	if err := r.db.SelectContext(ctx, &bookings, query, planID); err != nil {
		return nil, fmt.Errorf("list timetable bookings: %w", err)
	}
	return bookings, nil
}

// ListBookingsByPlan returns the occupancy of a single plan.
func (r *TimetableRepository) ListBookingsByPlan(ctx context.Context, planID string) ([]models.TimetableBooking, error) {
	const query = `SELECT ` + bookingColumns + `
WHERE e.plan_id = $1 ORDER BY e.id ASC`
	var bookings []models.TimetableBooking
	if err := r.db.SelectContext(ctx, &bookings, query, planID); err != nil {
		return nil, fmt.Errorf("list plan bookings: %w", err)
	}
	return bookings, nil
}

// ListByPlan returns detailed entries of a plan ordered by day and start time.
// A non-positive size returns every entry.
func (r *TimetableRepository) ListByPlan(ctx context.Context, planID string, page, size int) ([]models.TimetableEntryDetail, int, error) {
	query := `SELECT e.id, e.plan_id, e.obligation_id, e.teacher_id, e.subject_id, e.time_block_id, e.room_id,
e.expected_attendance, e.modality, e.score, e.strategy, e.created_at,
t.full_name AS teacher_name, s.name AS subject_name, r.code AS room_code,
b.name AS block_name, b.day_of_week, b.start_time, b.end_time
FROM timetable_entries e
JOIN time_blocks b ON b.id = e.time_block_id
JOIN rooms r ON r.id = e.room_id
JOIN teachers t ON t.id = e.teacher_id
JOIN subjects s ON s.id = e.subject_id
WHERE e.plan_id = $1
ORDER BY b.day_of_week ASC, b.start_time ASC, r.code ASC`
	if size > 0 {
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", size, (page-1)*size)
	}
	var entries []models.TimetableEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, planID); err != nil {
		return nil, 0, fmt.Errorf("list timetable entries: %w", err)
	}
	const countQuery = `SELECT COUNT(*) FROM timetable_entries WHERE plan_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, planID); err != nil {
		return nil, 0, fmt.Errorf("count timetable entries: %w", err)
	}
	return entries, total, nil
}

// DeleteByPlan removes every committed entry of a plan.
func (r *TimetableRepository) DeleteByPlan(ctx context.Context, exec sqlx.ExtContext, planID string) error {
	const query = `DELETE FROM timetable_entries WHERE plan_id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, planID); err != nil {
		return fmt.Errorf("delete timetable entries: %w", err)
	}
	return nil
}

// InsertBatch writes entries, assigning ids and timestamps where missing.
func (r *TimetableRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.TimetableEntry) error {
	if len(entries) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO timetable_entries (id, plan_id, obligation_id, teacher_id, subject_id, time_block_id, room_id, expected_attendance, modality, score, strategy, created_at)
VALUES (:id, :plan_id, :obligation_id, :teacher_id, :subject_id, :time_block_id, :room_id, :expected_attendance, :modality, :score, :strategy, :created_at)`

	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, entry); err != nil {
			return fmt.Errorf("insert timetable entry: %w", err)
		}
	}
	return nil
}
