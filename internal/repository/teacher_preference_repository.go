package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
)

// TeacherPreferenceRepository persists teacher preferences.
type TeacherPreferenceRepository struct {
	db *sqlx.DB
}

// NewTeacherPreferenceRepository constructs the repository.
func NewTeacherPreferenceRepository(db *sqlx.DB) *TeacherPreferenceRepository {
	return &TeacherPreferenceRepository{db: db}
}

// ListByTeachers returns stored preferences for the given teachers.
func (r *TeacherPreferenceRepository) ListByTeachers(ctx context.Context, teacherIDs []string) ([]models.TeacherPreference, error) {
	if len(teacherIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT id, teacher_id, preferred, unavailable, updated_at FROM teacher_preferences WHERE teacher_id = ANY($1)`
	var prefs []models.TeacherPreference
	if err := r.db.SelectContext(ctx, &prefs, query, pq.Array(teacherIDs)); err != nil {
		return nil, fmt.Errorf("list teacher preferences: %w", err)
	}
	return prefs, nil
}

// Upsert creates or updates teacher preferences.
func (r *TeacherPreferenceRepository) Upsert(ctx context.Context, pref *models.TeacherPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	pref.UpdatedAt = time.Now().UTC()
	if len(pref.Preferred) == 0 {
		pref.Preferred = []byte("[]")
	}
	if len(pref.Unavailable) == 0 {
		pref.Unavailable = []byte("[]")
	}

	const query = `INSERT INTO teacher_preferences (id, teacher_id, preferred, unavailable, updated_at)
		VALUES (:id, :teacher_id, :preferred, :unavailable, :updated_at)
		ON CONFLICT (teacher_id) DO UPDATE
		SET preferred = EXCLUDED.preferred,
		    unavailable = EXCLUDED.unavailable,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("upsert teacher preference: %w", err)
	}
	return nil
}
