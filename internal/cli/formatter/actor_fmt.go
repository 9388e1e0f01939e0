package formatter

import (
	"strings"

	"github.com/awsbudi/risk-tracker/internal/domain"
)

func FormatActorList(actors []*domain.Actor) string {
	if len(actors) == 0 {
		return Dim("No accounts.") + "\n"
	}
	headers := []string{"USERNAME", "NAME", "ROLE", "GROUPS"}
	rows := make([][]string, 0, len(actors))
	for _, a := range actors {
		role := string(a.EffectiveRole())
		if a.Superuser {
			role += StyleAccent.Render(" *")
		}
		names := make([]string, len(a.Groups))
		for i, g := range a.Groups {
			names[i] = g.Name
		}
		rows = append(rows, []string{Bold(a.Username), a.FullName, role, strings.Join(names, ", ")})
	}
	return RenderTable(headers, rows)
}

func FormatGroupList(groups []domain.Group) string {
	if len(groups) == 0 {
		return Dim("No groups.") + "\n"
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{Bold(g.Name), Dim(g.ID)})
	}
	return RenderTable([]string{"NAME", "ID"}, rows)
}
