// Package cascade propagates a task's date change to the tasks that depend
// on it. It works on an in-memory snapshot; persistence is the caller's job.
package cascade

import (
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/validate"
)

// Graph is an arena of tasks indexed by position, with successor lists
// following dependsOn edges and child lists following parent edges.
type Graph struct {
	tasks      []*domain.Task
	index      map[string]int
	successors [][]int
	children   [][]int
	projects   map[string]*domain.Project
}

// NewGraph snapshots tasks and projects. The tasks are copied so a walk can
// mutate them freely; successor order follows the input order.
func NewGraph(tasks []*domain.Task, projects []*domain.Project) *Graph {
	g := &Graph{
		tasks:      make([]*domain.Task, len(tasks)),
		index:      make(map[string]int, len(tasks)),
		successors: make([][]int, len(tasks)),
		children:   make([][]int, len(tasks)),
		projects:   make(map[string]*domain.Project, len(projects)),
	}
	for i, t := range tasks {
		cp := *t
		g.tasks[i] = &cp
		g.index[t.ID] = i
	}
	for i, t := range g.tasks {
		if t.DependsOnID != nil {
			if p, ok := g.index[*t.DependsOnID]; ok {
				g.successors[p] = append(g.successors[p], i)
			}
		}
		if t.ParentID != nil {
			if p, ok := g.index[*t.ParentID]; ok {
				g.children[p] = append(g.children[p], i)
			}
		}
	}
	for _, p := range projects {
		g.projects[p.ID] = p
	}
	return g
}

// Task returns the snapshot of id, or nil.
func (g *Graph) Task(id string) *domain.Task {
	if i, ok := g.index[id]; ok {
		return g.tasks[i]
	}
	return nil
}

// Dependents returns the tasks whose dependsOn is id.
func (g *Graph) Dependents(id string) []*domain.Task {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]*domain.Task, len(g.successors[i]))
	for k, s := range g.successors[i] {
		out[k] = g.tasks[s]
	}
	return out
}

// Children returns the sub-tasks of id.
func (g *Graph) Children(id string) []*domain.Task {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.subTasks(i)
}

func (g *Graph) subTasks(i int) []*domain.Task {
	out := make([]*domain.Task, len(g.children[i]))
	for k, c := range g.children[i] {
		out[k] = g.tasks[c]
	}
	return out
}

// Len is the number of tasks in the snapshot.
func (g *Graph) Len() int { return len(g.tasks) }

func (g *Graph) lookup(id *string) *domain.Task {
	if id == nil {
		return nil
	}
	return g.Task(*id)
}

// Refs resolves the project, parent and predecessor of t from the snapshot.
func (g *Graph) Refs(t *domain.Task) validate.TaskRefs {
	refs := validate.TaskRefs{
		Parent:    g.lookup(t.ParentID),
		DependsOn: g.lookup(t.DependsOnID),
	}
	if t.ProjectID != nil {
		refs.Project = g.projects[*t.ProjectID]
	}
	return refs
}
