package domain

import "time"

// AuditEntry records one mutation of a project, task or template.
type AuditEntry struct {
	ID          int64
	ActorID     *string
	Action      AuditAction
	TargetModel string
	TargetCode  string
	Details     string
	CreatedAt   time.Time
}
