package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/service"
)

// Services are the entry points a seed run goes through.
type Services struct {
	Actors    service.ActorService
	Templates service.TemplateService
	Projects  service.ProjectService
	Tasks     service.TaskService
}

// RowError is one fixture row the services rejected.
type RowError struct {
	Section string
	Index   int
	Name    string
	Err     error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s[%d] %q: %v", e.Section, e.Index, e.Name, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Report counts created rows per section. Rows that already existed are
// neither counted nor reported.
type Report struct {
	Groups    int
	Actors    int
	Templates int
	Projects  int
	Tasks     int
	Errors    []RowError
}

type run struct {
	svc      Services
	by       *domain.Actor
	report   *Report
	groups   map[string]domain.Group
	actors   map[string]*domain.Actor
	projects map[string]string
	tasks    map[string]string
}

// Apply creates every row of doc in order: groups, accounts, templates,
// projects, main tasks and then sub-tasks. A failing row is recorded and
// the run continues. by acts for rows without an "as" user; it may be nil
// on an empty database, in which case the first superuser created takes
// over.
func Apply(ctx context.Context, svc Services, by *domain.Actor, doc *Document) (*Report, error) {
	if errs := Check(doc); len(errs) > 0 {
		return nil, fmt.Errorf("seed: invalid document: %w", errors.Join(errs...))
	}
	r := &run{
		svc:      svc,
		by:       by,
		report:   &Report{},
		groups:   map[string]domain.Group{},
		actors:   map[string]*domain.Actor{},
		projects: map[string]string{},
		tasks:    map[string]string{},
	}
	if err := r.loadGroups(ctx); err != nil {
		return nil, err
	}
	r.applyGroups(ctx, doc.Groups)
	r.applyActors(ctx, doc.Actors)
	r.applyTemplates(ctx, doc.Templates)
	r.applyProjects(ctx, doc.Projects)
	r.applyTasks(ctx, doc.Tasks)
	return r.report, nil
}

func key(name string) string { return strings.ToUpper(strings.TrimSpace(name)) }

func (r *run) fail(section string, i int, name string, err error) {
	r.report.Errors = append(r.report.Errors, RowError{Section: section, Index: i, Name: name, Err: err})
}

func (r *run) loadGroups(ctx context.Context) error {
	groups, err := r.svc.Actors.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("seed: listing groups: %w", err)
	}
	for _, g := range groups {
		r.groups[key(g.Name)] = g
	}
	return nil
}

func (r *run) groupID(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	g, ok := r.groups[key(name)]
	if !ok {
		return "", &domain.NotFoundError{Entity: "group", Key: name}
	}
	return g.ID, nil
}

// actor resolves the acting user for a row.
func (r *run) actor(ctx context.Context, username string) (*domain.Actor, error) {
	if username == "" {
		if r.by == nil {
			return nil, &domain.PermissionError{Action: "seed", Reason: "no acting user"}
		}
		return r.by, nil
	}
	if a, ok := r.actors[key(username)]; ok {
		return a, nil
	}
	a, err := r.svc.Actors.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	r.actors[key(username)] = a
	return a, nil
}

func (r *run) applyGroups(ctx context.Context, names []string) {
	for i, name := range names {
		if _, ok := r.groups[key(name)]; ok {
			continue
		}
		g, err := r.svc.Actors.CreateGroup(ctx, r.by, name)
		if err != nil {
			r.fail("groups", i, name, err)
			continue
		}
		r.groups[key(g.Name)] = *g
		r.report.Groups++
	}
}

func (r *run) applyActors(ctx context.Context, rows []ActorRow) {
	for i, row := range rows {
		if existing, err := r.svc.Actors.Get(ctx, row.Username); err == nil {
			r.actors[key(row.Username)] = existing
			continue
		}
		in := service.CreateActorInput{
			Username:  row.Username,
			FullName:  row.FullName,
			Superuser: row.Superuser,
			Groups:    row.Groups,
		}
		if row.Role != "" {
			role, _ := domain.ParseRole(row.Role)
			in.Role = &role
		}
		a, err := r.svc.Actors.Create(ctx, r.by, in)
		if err != nil {
			r.fail("actors", i, row.Username, err)
			continue
		}
		r.actors[key(a.Username)] = a
		r.report.Actors++
		if r.by == nil && a.Superuser {
			r.by = a
		}
	}
}

func (r *run) applyTemplates(ctx context.Context, rows []TemplateRow) {
	for i, row := range rows {
		err := func() error {
			as, err := r.actor(ctx, row.As)
			if err != nil {
				return err
			}
			group, err := r.groupID(row.Group)
			if err != nil {
				return err
			}
			freq, _ := domain.ParseFrequency(row.Frequency)
			in := service.CreateTemplateInput{
				Name:         row.Name,
				Description:  row.Description,
				Frequency:    freq,
				OwnerGroupID: group,
			}
			if row.Assignee != "" {
				in.DefaultAssigneeID = &row.Assignee
			}
			_, err = r.svc.Templates.Create(ctx, as, in)
			return err
		}()
		if err != nil {
			r.fail("templates", i, row.Name, err)
			continue
		}
		r.report.Templates++
	}
}

func (r *run) applyProjects(ctx context.Context, rows []ProjectRow) {
	for i, row := range rows {
		err := func() error {
			as, err := r.actor(ctx, row.As)
			if err != nil {
				return err
			}
			group, err := r.groupID(row.Group)
			if err != nil {
				return err
			}
			in := service.CreateProjectInput{
				Name:         row.Name,
				Description:  row.Description,
				OwnerGroupID: group,
			}
			in.PlanStart, _ = calendar.Parse(row.Start)
			in.PlanEnd, _ = calendar.Parse(row.End)
			if row.Status != "" {
				in.Status, _ = domain.ParseProjectStatus(row.Status)
			}
			p, err := r.svc.Projects.Create(ctx, as, in)
			if err != nil {
				return err
			}
			r.projects[key(p.Name)] = p.Code
			return nil
		}()
		if err != nil {
			r.fail("projects", i, row.Name, err)
			continue
		}
		r.report.Projects++
	}
}

// applyTasks creates main tasks first, then sub-tasks in passes so a child
// listed before its parent still finds it.
func (r *run) applyTasks(ctx context.Context, rows []TaskRow) {
	var pending []int
	for i, row := range rows {
		if row.Parent == "" {
			r.applyTask(ctx, i, row)
		} else {
			pending = append(pending, i)
		}
	}
	for len(pending) > 0 {
		var next []int
		for _, i := range pending {
			if _, ok := r.tasks[key(rows[i].Parent)]; ok || !r.waitsOn(rows, pending, rows[i].Parent) {
				r.applyTask(ctx, i, rows[i])
			} else {
				next = append(next, i)
			}
		}
		if len(next) == len(pending) {
			for _, i := range next {
				r.applyTask(ctx, i, rows[i])
			}
			return
		}
		pending = next
	}
}

// waitsOn reports whether parent names a row that is still pending.
func (r *run) waitsOn(rows []TaskRow, pending []int, parent string) bool {
	for _, i := range pending {
		if key(rows[i].Name) == key(parent) {
			return true
		}
	}
	return false
}

// ref turns a name used earlier in the run into its code; anything else is
// passed through as a code or ID.
func ref(names map[string]string, v string) *string {
	if v == "" {
		return nil
	}
	if code, ok := names[key(v)]; ok {
		return &code
	}
	return &v
}

func (r *run) applyTask(ctx context.Context, i int, row TaskRow) {
	err := func() error {
		as, err := r.actor(ctx, row.As)
		if err != nil {
			return err
		}
		group, err := r.groupID(row.Group)
		if err != nil {
			return err
		}
		in := service.CreateTaskInput{
			Name:         row.Name,
			ProjectID:    ref(r.projects, row.Project),
			ParentID:     ref(r.tasks, row.Parent),
			DependsOnID:  ref(r.tasks, row.DependsOn),
			RequestedBy:  row.RequestedBy,
			OwnerGroupID: group,
			Progress:     row.Progress,
		}
		switch {
		case row.Kind != "":
			in.Kind, _ = domain.ParseTaskKind(row.Kind)
		case row.Project != "":
			in.Kind = domain.TaskKindProject
		default:
			in.Kind = domain.TaskKindAdHoc
		}
		if in.Kind == domain.TaskKindAdHoc && in.RequestedBy == "" {
			in.RequestedBy = as.DisplayName()
		}
		if row.Assignee != "" {
			in.AssigneeID = &row.Assignee
		}
		if row.Status != "" {
			in.Status, _ = domain.ParseTaskStatus(row.Status)
		}
		in.PlanStart, _ = calendar.Parse(row.Start)
		in.PlanDue, _ = calendar.Parse(row.Due)

		t, err := r.svc.Tasks.Create(ctx, as, in)
		if err != nil {
			return err
		}
		r.tasks[key(t.Name)] = t.Code
		return nil
	}()
	if err != nil {
		r.fail("tasks", i, row.Name, err)
		return
	}
	r.report.Tasks++
}
