package access

import (
	"github.com/awsbudi/risk-tracker/internal/domain"
)

// Policy answers visibility questions for a fixed set of groups.
type Policy struct {
	hierarchy Hierarchy
	byName    map[string]domain.Group
}

// NewPolicy builds a policy over the known groups. Hierarchy entries naming
// groups that do not exist are ignored.
func NewPolicy(h Hierarchy, groups []domain.Group) *Policy {
	if h == nil {
		h = DefaultHierarchy()
	}
	byName := make(map[string]domain.Group, len(groups))
	for _, g := range groups {
		byName[normalizeName(g.Name)] = g
	}
	return &Policy{hierarchy: h, byName: byName}
}

// AccessibleGroups returns the IDs of the groups whose records the actor
// may see. It is nil for superusers, who see everything.
func (p *Policy) AccessibleGroups(a *domain.Actor) map[string]bool {
	if a.Superuser {
		return nil
	}
	ids := make(map[string]bool, len(a.Groups))
	for _, g := range a.Groups {
		ids[g.ID] = true
		if a.EffectiveRole() != domain.RoleAdmin {
			continue
		}
		for _, sub := range p.hierarchy.subGroups(g.Name) {
			if sg, ok := p.byName[normalizeName(sub)]; ok {
				ids[sg.ID] = true
			}
		}
	}
	return ids
}

// CanSeeTask reports whether the task is owned by an accessible group or
// assigned to the actor.
func (p *Policy) CanSeeTask(a *domain.Actor, t *domain.Task) bool {
	if a.Superuser {
		return true
	}
	return p.AccessibleGroups(a)[t.OwnerGroupID] || t.IsAssignedTo(a.ID)
}

func (p *Policy) CanSeeProject(a *domain.Actor, pr *domain.Project) bool {
	if a.Superuser {
		return true
	}
	return p.AccessibleGroups(a)[pr.OwnerGroupID]
}

// VisibleTasks filters tasks down to those the actor can see, keeping order.
func (p *Policy) VisibleTasks(a *domain.Actor, tasks []*domain.Task) []*domain.Task {
	if a.Superuser {
		return tasks
	}
	groups := p.AccessibleGroups(a)
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if groups[t.OwnerGroupID] || t.IsAssignedTo(a.ID) {
			out = append(out, t)
		}
	}
	return out
}

func (p *Policy) VisibleProjects(a *domain.Actor, projects []*domain.Project) []*domain.Project {
	if a.Superuser {
		return projects
	}
	groups := p.AccessibleGroups(a)
	out := make([]*domain.Project, 0, len(projects))
	for _, pr := range projects {
		if groups[pr.OwnerGroupID] {
			out = append(out, pr)
		}
	}
	return out
}
