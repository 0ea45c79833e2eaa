package models

import "time"

// Audited scheduling actions.
const (
	AuditActionSchedulingRun    = "SCHEDULING_RUN"
	AuditActionSchedulingCommit = "SCHEDULING_COMMIT"
)

// Audited resources, named after their tables.
const (
	AuditResourcePlan = "academic_plans"
	AuditResourceRun  = "scheduling_runs"
)

// AuditLog is one row of audit_logs. NewValues holds a JSON summary of the request.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	RequestID  string    `db:"request_id" json:"request_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
