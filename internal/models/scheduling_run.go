package models

import (
	"time"

	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
)

// SchedulingRunStatus tracks an execution through the run store.
type SchedulingRunStatus string

const (
	RunStatusQueued    SchedulingRunStatus = "QUEUED"
	RunStatusRunning   SchedulingRunStatus = "RUNNING"
	RunStatusCompleted SchedulingRunStatus = "COMPLETED"
	RunStatusFailed    SchedulingRunStatus = "FAILED"
)

// SchedulingRun is a scheduling execution kept in the run store until it is
// committed or expires.
type SchedulingRun struct {
	ID          string              `json:"id"`
	PlanID      string              `json:"plan_id"`
	Strategy    scheduler.Strategy  `json:"strategy"`
	Status      SchedulingRunStatus `json:"status"`
	DryRun      bool                `json:"dry_run"`
	Committed   bool                `json:"committed"`
	RequestedBy string              `json:"requested_by,omitempty"`
	Error       string              `json:"error,omitempty"`
	Result      *scheduler.Result   `json:"result,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	FinishedAt  *time.Time          `json:"finished_at,omitempty"`
}
