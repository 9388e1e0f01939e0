// Package recurrence expands task templates into dated routine instances.
package recurrence

import (
	"fmt"
	"time"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/codes"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

// ShouldCreate reports whether a template with frequency f produces an
// instance on d.
func ShouldCreate(d time.Time, f domain.Frequency, cal calendar.Policy) bool {
	switch f {
	case domain.FrequencyDaily:
		return cal.IsWorkingDay(d)
	case domain.FrequencyWeekly:
		return d.Weekday() == time.Monday
	case domain.FrequencyMonthly:
		return d.Day() == 1
	case domain.FrequencyQuarterly:
		switch d.Month() {
		case time.January, time.April, time.July, time.October:
			return d.Day() == 1
		}
		return false
	case domain.FrequencyYearly:
		return d.Month() == time.January && d.Day() == 1
	}
	return false
}

// Occurrences lists every matching date in [start, end].
func Occurrences(start, end time.Time, f domain.Frequency, cal calendar.Policy) []time.Time {
	var out []time.Time
	for d := range calendar.Days(start, end) {
		if ShouldCreate(d, f, cal) {
			out = append(out, d)
		}
	}
	return out
}

// InstanceName is the display name of the instance of tmpl on d.
func InstanceName(tmpl *domain.TaskTemplate, d time.Time) string {
	return fmt.Sprintf("%s (%s)", tmpl.Name, calendar.Format(d))
}

// NewInstance builds the unsaved routine task for tmpl on d. The instance
// starts and ends on d.
func NewInstance(tmpl *domain.TaskTemplate, d time.Time) *domain.Task {
	id := tmpl.ID
	t := &domain.Task{
		Code:         codes.RoutineTask(tmpl.ID, d),
		Name:         InstanceName(tmpl, d),
		Kind:         domain.TaskKindRoutine,
		PlanStart:    calendar.Day(d),
		PlanDue:      calendar.Day(d),
		Status:       domain.TaskTodo,
		OwnerGroupID: tmpl.OwnerGroupID,
		TemplateID:   &id,
	}
	if tmpl.DefaultAssigneeID != nil {
		a := *tmpl.DefaultAssigneeID
		t.AssigneeID = &a
	}
	return t
}
