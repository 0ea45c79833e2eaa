package models

import "time"

// PlanStatus represents lifecycle phases of an academic plan.
type PlanStatus string

const (
	PlanStatusDraft    PlanStatus = "DRAFT"
	PlanStatusReview   PlanStatus = "REVIEW"
	PlanStatusApproved PlanStatus = "APPROVED"
	PlanStatusActive   PlanStatus = "ACTIVE"
	PlanStatusClosed   PlanStatus = "CLOSED"
)

// Schedulable reports whether the timetable of a plan in this status may still be regenerated.
func (s PlanStatus) Schedulable() bool {
	return s == PlanStatusDraft || s == PlanStatusReview
}

// AcademicPlan groups the teaching obligations of one academic period.
type AcademicPlan struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	PeriodID  string     `db:"period_id" json:"period_id"`
	Status    PlanStatus `db:"status" json:"status"`
	Notes     string     `db:"notes" json:"notes"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
