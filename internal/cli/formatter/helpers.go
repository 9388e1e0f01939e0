package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Date renders a plan date with its weekday, e.g. "2025-02-03 Mon".
func Date(d time.Time) string {
	return fmt.Sprintf("%s %s", calendar.Format(d), d.Weekday().String()[:3])
}

// OptionalDate renders a nullable date, or a dim placeholder.
func OptionalDate(d *time.Time) string {
	if d == nil {
		return Dim("--")
	}
	return calendar.Format(*d)
}

// Window renders a plan window with its length in days.
func Window(start, due time.Time) string {
	return fmt.Sprintf("%s → %s (%dd)", calendar.Format(start), calendar.Format(due), calendar.DaysBetween(start, due)+1)
}

func ProjectStatusPill(s domain.ProjectStatus) string {
	if m, ok := projectStatusMarkers[s]; ok {
		return m.render()
	}
	return StyleDim.Render(string(s))
}

func TaskStatusPill(s domain.TaskStatus) string {
	if m, ok := taskStatusMarkers[s]; ok {
		return m.render()
	}
	return StyleDim.Render(string(s))
}

// KindBadge renders unknown kinds as ad hoc.
func KindBadge(k domain.TaskKind) string {
	if m, ok := kindMarkers[k]; ok {
		return m.render()
	}
	return kindMarkers[domain.TaskKindAdHoc].render()
}
