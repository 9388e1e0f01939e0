package seed

import (
	"fmt"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

// Check reports structural problems: missing names, unknown enum values
// and unparsable dates. Planning rules are left to the services.
func Check(doc *Document) []error {
	var errs []error
	for i, a := range doc.Actors {
		if a.Username == "" {
			errs = append(errs, fmt.Errorf("actors[%d].username is required", i))
		}
		if a.Role != "" {
			if _, err := domain.ParseRole(a.Role); err != nil {
				errs = append(errs, fmt.Errorf("actors[%d].role: %w", i, err))
			}
		}
	}
	for i, t := range doc.Templates {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("templates[%d].name is required", i))
		}
		if _, err := domain.ParseFrequency(t.Frequency); err != nil {
			errs = append(errs, fmt.Errorf("templates[%d].frequency: %w", i, err))
		}
	}
	for i, p := range doc.Projects {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("projects[%d].name is required", i))
		}
		errs = append(errs, checkDate(fmt.Sprintf("projects[%d].start", i), p.Start)...)
		errs = append(errs, checkDate(fmt.Sprintf("projects[%d].end", i), p.End)...)
		if p.Status != "" {
			if _, err := domain.ParseProjectStatus(p.Status); err != nil {
				errs = append(errs, fmt.Errorf("projects[%d].status: %w", i, err))
			}
		}
	}
	for i, t := range doc.Tasks {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("tasks[%d].name is required", i))
		}
		if t.Kind != "" {
			if _, err := domain.ParseTaskKind(t.Kind); err != nil {
				errs = append(errs, fmt.Errorf("tasks[%d].kind: %w", i, err))
			}
		}
		if t.Status != "" {
			if _, err := domain.ParseTaskStatus(t.Status); err != nil {
				errs = append(errs, fmt.Errorf("tasks[%d].status: %w", i, err))
			}
		}
		errs = append(errs, checkDate(fmt.Sprintf("tasks[%d].start", i), t.Start)...)
		errs = append(errs, checkDate(fmt.Sprintf("tasks[%d].due", i), t.Due)...)
	}
	return errs
}

func checkDate(field, value string) []error {
	if value == "" {
		return []error{fmt.Errorf("%s is required", field)}
	}
	if _, err := calendar.Parse(value); err != nil {
		return []error{fmt.Errorf("%s: %w", field, err)}
	}
	return nil
}
