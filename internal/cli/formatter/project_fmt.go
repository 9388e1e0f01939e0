package formatter

import (
	"fmt"
	"strings"

	"github.com/awsbudi/risk-tracker/internal/domain"
)

// FormatProjectList renders projects as a table. groups maps group IDs to
// names; unknown IDs are shown as-is.
func FormatProjectList(projects []*domain.Project, groups map[string]string) string {
	if len(projects) == 0 {
		return Dim("No projects.") + "\n"
	}
	headers := []string{"CODE", "NAME", "STATUS", "WINDOW", "GROUP"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			Bold(p.Code),
			p.Name,
			ProjectStatusPill(p.Status),
			Window(p.PlanStart, p.PlanEnd),
			groupName(groups, p.OwnerGroupID),
		})
	}
	return RenderTable(headers, rows)
}

// FormatProjectDetail renders one project with the tasks inside it.
func FormatProjectDetail(p *domain.Project, tasks []*domain.Task, groups map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(p.Name), ProjectStatusPill(p.Status))
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n", Dim(p.Description))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Plan     %s\n", Window(p.PlanStart, p.PlanEnd))
	fmt.Fprintf(&b, "Actual   %s → %s\n", OptionalDate(p.ActualStart), OptionalDate(p.ActualEnd))
	fmt.Fprintf(&b, "Group    %s\n", groupName(groups, p.OwnerGroupID))

	out := RenderBox(p.Code, b.String()) + "\n"
	if len(tasks) > 0 {
		out += "\n" + Header("Tasks") + "\n" + FormatTaskList(tasks, nil)
	}
	return out
}

func groupName(groups map[string]string, id string) string {
	if name, ok := groups[id]; ok {
		return name
	}
	return id
}
