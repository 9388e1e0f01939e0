package formatter

import (
	"fmt"
	"strings"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

const progressWidth = 10

// FormatTaskList renders tasks as a table. Child tasks are indented under
// their code. actors maps actor IDs to display names.
func FormatTaskList(tasks []*domain.Task, actors map[string]string) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}
	headers := []string{"CODE", "NAME", "KIND", "STATUS", "PROGRESS", "WINDOW", "ASSIGNEE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		code := Bold(t.Code)
		if !t.IsTopLevel() {
			code = "  " + t.Code
		}
		rows = append(rows, []string{
			code,
			t.Name,
			KindBadge(t.Kind),
			TaskStatusPill(t.Status),
			RenderProgress(t.Progress, progressWidth),
			Window(t.PlanStart, t.PlanDue),
			assigneeName(actors, t.AssigneeID),
		})
	}
	return RenderTable(headers, rows)
}

// FormatTaskDetail renders one task in a box.
func FormatTaskDetail(t *domain.Task, actors map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n\n", Bold(t.Name), KindBadge(t.Kind), TaskStatusPill(t.Status))
	fmt.Fprintf(&b, "Plan       %s\n", Window(t.PlanStart, t.PlanDue))
	fmt.Fprintf(&b, "Actual     %s → %s\n", OptionalDate(t.ActualStart), OptionalDate(t.ActualEnd))
	fmt.Fprintf(&b, "Progress   %s\n", RenderProgress(t.Progress, progressWidth*2))
	fmt.Fprintf(&b, "Assignee   %s\n", assigneeName(actors, t.AssigneeID))
	if t.RequestedBy != "" {
		fmt.Fprintf(&b, "Requester  %s\n", t.RequestedBy)
	}
	return RenderBox(t.Code, b.String()) + "\n"
}

// FormatReschedule summarizes a cascade: every task written, then every
// dependent that kept its dates with the rules it broke.
func FormatReschedule(updated []*domain.Task, failed []FailedShift) string {
	var b strings.Builder
	b.WriteString(Header("Rescheduled") + "\n")
	for _, t := range updated {
		fmt.Fprintf(&b, "  %s %s  %s\n", StyleOK.Render("✔"), Bold(t.Code), Window(t.PlanStart, t.PlanDue))
	}
	if len(failed) == 0 {
		return b.String()
	}
	b.WriteString("\n" + Header("Not moved") + "\n")
	for _, f := range failed {
		fmt.Fprintf(&b, "  %s %s  wanted %s → %s\n", StyleAlert.Render("✖"), Bold(f.Code),
			calendar.Format(f.Start), calendar.Format(f.Due))
		for _, reason := range f.Reasons {
			fmt.Fprintf(&b, "      %s\n", Dim(reason))
		}
	}
	return b.String()
}

func assigneeName(actors map[string]string, id *string) string {
	if id == nil {
		return Dim("--")
	}
	if name, ok := actors[*id]; ok {
		return name
	}
	return *id
}
