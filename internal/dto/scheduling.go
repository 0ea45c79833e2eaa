package dto

import "time"

// RunSchedulingRequest triggers a scheduling run for a plan.
type RunSchedulingRequest struct {
	Strategy       string `json:"strategy" validate:"omitempty,oneof=teacher_priority room_optimization balanced_distribution genetic_algorithm"`
	Commit         bool   `json:"commit"`
	DryRun         bool   `json:"dryRun"`
	Async          bool   `json:"async"`
	PopulationSize int    `json:"populationSize" validate:"omitempty,min=2,max=1000"`
	Generations    int    `json:"generations" validate:"omitempty,min=1,max=5000"`
	Seed           *int64 `json:"seed,omitempty"`
}

// AssignmentResponse is one accepted placement.
type AssignmentResponse struct {
	ObligationID string  `json:"obligationId"`
	TeacherID    string  `json:"teacherId"`
	TeacherName  string  `json:"teacherName,omitempty"`
	SubjectID    string  `json:"subjectId"`
	SubjectName  string  `json:"subjectName,omitempty"`
	TimeBlockID  string  `json:"timeBlockId"`
	BlockName    string  `json:"blockName,omitempty"`
	DayOfWeek    string  `json:"dayOfWeek"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	RoomID       string  `json:"roomId"`
	RoomCode     string  `json:"roomCode,omitempty"`
	Attendance   int     `json:"attendance"`
	Modality     string  `json:"modality"`
	Score        float64 `json:"score"`
}

// ConflictResponse describes a rejected candidate or broken occupancy invariant.
type ConflictResponse struct {
	Category     string `json:"category"`
	Description  string `json:"description"`
	ObligationID string `json:"obligationId,omitempty"`
}

// UnassignedResponse identifies an obligation left without placement.
type UnassignedResponse struct {
	ObligationID string `json:"obligationId"`
	TeacherID    string `json:"teacherId"`
	TeacherName  string `json:"teacherName,omitempty"`
	SubjectID    string `json:"subjectId"`
	SubjectName  string `json:"subjectName,omitempty"`
}

// SchedulingRunResponse reports the state and, once finished, the result of a run.
type SchedulingRunResponse struct {
	RunID       string               `json:"runId"`
	PlanID      string               `json:"planId"`
	Status      string               `json:"status"`
	Strategy    string               `json:"strategy"`
	Success     bool                 `json:"success"`
	DryRun      bool                 `json:"dryRun"`
	Committed   bool                 `json:"committed"`
	Score       float64              `json:"score"`
	ElapsedMs   int64                `json:"elapsedMs"`
	Message     string               `json:"message,omitempty"`
	Error       string               `json:"error,omitempty"`
	Assignments []AssignmentResponse `json:"assignments"`
	Conflicts   []ConflictResponse   `json:"conflicts"`
	Unassigned  []UnassignedResponse `json:"unassigned"`
	CreatedAt   time.Time            `json:"createdAt"`
	FinishedAt  *time.Time           `json:"finishedAt,omitempty"`
}

// StrategyResponse describes a selectable scheduling strategy.
type StrategyResponse struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}
