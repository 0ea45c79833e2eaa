package models

import "time"

// TimetableEntry is a committed assignment of an obligation to a block and room.
type TimetableEntry struct {
	ID                 string    `db:"id" json:"id"`
	PlanID             string    `db:"plan_id" json:"plan_id"`
	ObligationID       string    `db:"obligation_id" json:"obligation_id"`
	TeacherID          string    `db:"teacher_id" json:"teacher_id"`
	SubjectID          string    `db:"subject_id" json:"subject_id"`
	TimeBlockID        string    `db:"time_block_id" json:"time_block_id"`
	RoomID             string    `db:"room_id" json:"room_id"`
	ExpectedAttendance int       `db:"expected_attendance" json:"expected_attendance"`
	Modality           string    `db:"modality" json:"modality"`
	Score              float64   `db:"score" json:"score"`
	Strategy           string    `db:"strategy" json:"strategy"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// TimetableEntryDetail is an entry joined with its block, room, teacher and subject.
type TimetableEntryDetail struct {
	TimetableEntry
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	RoomCode    string `db:"room_code" json:"room_code"`
	BlockName   string `db:"block_name" json:"block_name"`
	DayOfWeek   int    `db:"day_of_week" json:"day_of_week"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
}

// TimetableBooking is the occupancy projection of an entry used for clash checks.
type TimetableBooking struct {
	EntryID      string `db:"entry_id"`
	PlanID       string `db:"plan_id"`
	ObligationID string `db:"obligation_id"`
	TeacherID    string `db:"teacher_id"`
	RoomID       string `db:"room_id"`
	TimeBlockID  string `db:"time_block_id"`
	BlockName    string `db:"block_name"`
	DayOfWeek    int    `db:"day_of_week"`
	StartTime    string `db:"start_time"`
	EndTime      string `db:"end_time"`
}

// ConflictStatus tracks the resolution of a recorded conflict.
type ConflictStatus string

const (
	ConflictStatusDetected ConflictStatus = "DETECTED"
	ConflictStatusResolved ConflictStatus = "RESOLVED"
	ConflictStatusPending  ConflictStatus = "PENDING"
)

// SchedulingConflict is a persisted conflict record for a plan.
type SchedulingConflict struct {
	ID           string         `db:"id" json:"id"`
	PlanID       string         `db:"plan_id" json:"plan_id"`
	ObligationID *string        `db:"obligation_id" json:"obligation_id,omitempty"`
	Category     string         `db:"category" json:"category"`
	Description  string         `db:"description" json:"description"`
	Status       ConflictStatus `db:"status" json:"status"`
	DetectedAt   time.Time      `db:"detected_at" json:"detected_at"`
}
