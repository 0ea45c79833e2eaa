package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TeacherWindow describes a weekly teaching window, e.g. {"MONDAY", "08:00-10:00"}.
type TeacherWindow struct {
	DayOfWeek string `json:"day_of_week"`
	TimeRange string `json:"time_range"`
}

// TeacherPreference stores preferred and blocked teaching windows for a teacher.
type TeacherPreference struct {
	ID          string         `db:"id" json:"id"`
	TeacherID   string         `db:"teacher_id" json:"teacher_id"`
	Preferred   types.JSONText `db:"preferred" json:"preferred"`
	Unavailable types.JSONText `db:"unavailable" json:"unavailable"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}
