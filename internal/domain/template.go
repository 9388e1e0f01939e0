package domain

import "time"

// TaskTemplate describes a recurring routine task. It holds no dates; the
// recurrence generator turns it into dated RoutineTask instances.
type TaskTemplate struct {
	ID                int64
	Name              string
	Description       string
	Frequency         Frequency
	DefaultAssigneeID *string
	OwnerGroupID      string
	CreatedAt         time.Time
}
