package dto

// TimetableQuery paginates committed timetable entries.
type TimetableQuery struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" validate:"omitempty,min=1,max=500"`
}

// TimetableExportQuery selects the export format.
type TimetableExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// TimetableAuditResponse lists structural conflicts found among committed entries.
type TimetableAuditResponse struct {
	PlanID    string             `json:"planId"`
	Entries   int                `json:"entries"`
	Conflicts []ConflictResponse `json:"conflicts"`
}
