package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/awsbudi/risk-tracker/internal/domain"
)

// Palette, named by what the colour signals rather than its hue.
var (
	ColorOK     = lipgloss.Color("#8ec07c")
	ColorWarn   = lipgloss.Color("#fabd2f")
	ColorAlert  = lipgloss.Color("#fb4934")
	ColorInfo   = lipgloss.Color("#83a598")
	ColorAccent = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleOK     = lipgloss.NewStyle().Foreground(ColorOK)
	StyleWarn   = lipgloss.NewStyle().Foreground(ColorWarn)
	StyleAlert  = lipgloss.NewStyle().Foreground(ColorAlert)
	StyleInfo   = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleAccent = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// marker is a glyph and label drawn in one style.
type marker struct {
	glyph string
	label string
	style lipgloss.Style
}

func (m marker) render() string {
	if m.glyph == "" {
		return m.style.Render(m.label)
	}
	return m.style.Render(m.glyph + " " + m.label)
}

var taskStatusMarkers = map[domain.TaskStatus]marker{
	domain.TaskTodo:       {"○", "Todo", StyleInfo},
	domain.TaskInProgress: {"●", "In progress", StyleOK},
	domain.TaskReview:     {"◐", "Review", StyleAccent},
	domain.TaskDone:       {"✔", "Done", StyleDim},
	domain.TaskOverdue:    {"▲", "Overdue", StyleAlert},
	domain.TaskOnHold:     {"○", "On hold", StyleWarn},
	domain.TaskDropped:    {"✖", "Dropped", StyleDim},
}

var projectStatusMarkers = map[domain.ProjectStatus]marker{
	domain.ProjectRunning: {"●", "Running", StyleOK},
	domain.ProjectOnHold:  {"○", "On hold", StyleWarn},
	domain.ProjectDone:    {"✔", "Done", StyleDim},
	domain.ProjectDropped: {"✖", "Dropped", StyleDim},
}

var kindMarkers = map[domain.TaskKind]marker{
	domain.TaskKindProject: {"", "project", StyleAccent},
	domain.TaskKindRoutine: {"", "routine", StyleInfo},
	domain.TaskKindAdHoc:   {"", "ad hoc", StyleWarn},
}

// Header renders an upper-cased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
