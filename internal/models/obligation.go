package models

// SubjectKind values stored on subjects.
const (
	SubjectKindTheory     = "THEORY"
	SubjectKindLaboratory = "LABORATORY"
)

// TeachingObligation binds a teacher to a subject inside a plan. Teacher and
// subject columns are joined in for scheduling.
type TeachingObligation struct {
	ID                 string `db:"id" json:"id"`
	PlanID             string `db:"plan_id" json:"plan_id"`
	TeacherID          string `db:"teacher_id" json:"teacher_id"`
	TeacherName        string `db:"teacher_name" json:"teacher_name"`
	SubjectID          string `db:"subject_id" json:"subject_id"`
	SubjectName        string `db:"subject_name" json:"subject_name"`
	SubjectKind        string `db:"subject_kind" json:"subject_kind"`
	SubjectLevel       int    `db:"subject_level" json:"subject_level"`
	WeeklyHours        int    `db:"weekly_hours" json:"weekly_hours"`
	ExpectedAttendance int    `db:"expected_attendance" json:"expected_attendance"`
	Active             bool   `db:"active" json:"active"`
}
