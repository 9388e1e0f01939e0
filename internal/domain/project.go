package domain

import "time"

// Project groups ProjectTasks under a P-### code owned by a group.
type Project struct {
	ID           string
	Code         string
	Name         string
	Description  string
	PlanStart    time.Time
	PlanEnd      time.Time
	ActualStart  *time.Time
	ActualEnd    *time.Time
	Status       ProjectStatus
	OwnerGroupID string
	CreatedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Contains reports whether d falls inside the project's plan window.
func (p *Project) Contains(d time.Time) bool {
	return !d.Before(p.PlanStart) && !d.After(p.PlanEnd)
}
