package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/domain"
)

func FormatTemplateList(templates []*domain.TaskTemplate, groups map[string]string) string {
	if len(templates) == 0 {
		return Dim("No templates.") + "\n"
	}
	headers := []string{"ID", "NAME", "FREQUENCY", "GROUP"}
	rows := make([][]string, 0, len(templates))
	for _, tpl := range templates {
		rows = append(rows, []string{
			Bold(strconv.FormatInt(tpl.ID, 10)),
			tpl.Name,
			StyleInfo.Render(string(tpl.Frequency)),
			groupName(groups, tpl.OwnerGroupID),
		})
	}
	return RenderTable(headers, rows)
}

// GenerateSummary is what one template produced in a generation run.
type GenerateSummary struct {
	Template string
	Created  []string
	Skipped  []string
	Failed   []GenerateFailure
}

type GenerateFailure struct {
	Code string
	Err  error
}

func FormatGenerate(summaries []GenerateSummary) string {
	if len(summaries) == 0 {
		return Dim("No templates to generate.") + "\n"
	}
	var b strings.Builder
	for i, s := range summaries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s created, %s skipped, %s failed\n", Bold(s.Template),
			StyleOK.Render(strconv.Itoa(len(s.Created))),
			Dim(strconv.Itoa(len(s.Skipped))),
			StyleAlert.Render(strconv.Itoa(len(s.Failed))))
		for _, code := range s.Created {
			fmt.Fprintf(&b, "  %s %s\n", StyleOK.Render("+"), code)
		}
		for _, f := range s.Failed {
			fmt.Fprintf(&b, "  %s %s\n", StyleAlert.Render("✖"), f.Code)
			for _, line := range ErrorLines(f.Err) {
				fmt.Fprintf(&b, "      %s\n", Dim(line))
			}
		}
	}
	return b.String()
}

// Period renders a generation window.
func Period(start, end time.Time) string {
	return calendar.Format(start) + " → " + calendar.Format(end)
}
