package dto

// TeacherWindowRequest is a weekly window, for example MONDAY 08:00-10:00.
type TeacherWindowRequest struct {
	DayOfWeek string `json:"dayOfWeek" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY"`
	TimeRange string `json:"timeRange" validate:"required"`
}

// UpsertTeacherPreferenceRequest replaces the windows of a teacher.
type UpsertTeacherPreferenceRequest struct {
	Preferred   []TeacherWindowRequest `json:"preferred" validate:"omitempty,max=42,dive"`
	Unavailable []TeacherWindowRequest `json:"unavailable" validate:"omitempty,max=42,dive"`
}

// TeacherPreferenceResponse exposes the stored windows of a teacher.
type TeacherPreferenceResponse struct {
	TeacherID   string                 `json:"teacherId"`
	Preferred   []TeacherWindowRequest `json:"preferred"`
	Unavailable []TeacherWindowRequest `json:"unavailable"`
}
