package cascade

import (
	"errors"
	"time"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/domain"
	"github.com/awsbudi/risk-tracker/internal/validate"
)

// Failure is a dependent that could not be shifted: its new dates failed
// validation or the guard refused it. Its dates were left unchanged and its
// own dependents were not visited.
type Failure struct {
	Task           *domain.Task
	AttemptedStart time.Time
	AttemptedDue   time.Time
	Err            error
}

// Validation returns the violations behind f, or nil when the guard refused
// the move.
func (f Failure) Validation() *domain.ValidationError {
	var verr *domain.ValidationError
	if errors.As(f.Err, &verr) {
		return verr
	}
	return nil
}

// Guard decides whether a dependent may be moved. A nil Guard moves any task.
type Guard func(t *domain.Task) error

// Result lists the tasks to persist in update order, root first.
type Result struct {
	Updated []*domain.Task
	Failed  []Failure
}

type Scheduler struct {
	validator *validate.Validator
	guard     Guard
}

func NewScheduler(v *validate.Validator, guard Guard) *Scheduler {
	return &Scheduler{validator: v, guard: guard}
}

// Reschedule moves rootID to [start, due] and pushes every dependent that
// would now overlap its predecessor later by the minimum amount, keeping its
// duration. Dependents are never moved earlier.
//
// The root is fully validated and its sub-tasks must still fit its new
// window; a failure returns *domain.ValidationError with the graph
// untouched. A cycle returns *domain.CycleDetectedError; the graph may be
// partially updated and must be discarded.
func (s *Scheduler) Reschedule(g *Graph, rootID string, start, due time.Time) (*Result, error) {
	ri, ok := g.index[rootID]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "task", Key: rootID}
	}
	root := g.tasks[ri]

	candidate := *root
	candidate.Reschedule(calendar.Day(start), calendar.Day(due))
	vs := s.validator.Task(&candidate, g.Refs(&candidate))
	vs = append(vs, s.validator.Children(&candidate, g.subTasks(ri))...)
	if err := domain.NewValidationError(vs); err != nil {
		return nil, err
	}
	*root = candidate

	w := &walker{
		g:        g,
		v:        s.validator,
		onPath:   make([]bool, len(g.tasks)),
		visited:  make([]bool, len(g.tasks)),
		result:   &Result{Updated: []*domain.Task{root}},
		boundary: s.validator.Boundary,
		guard:    s.guard,
	}
	w.visited[ri] = true
	if err := w.push(ri); err != nil {
		return nil, err
	}
	return w.result, nil
}

type walker struct {
	g        *Graph
	v        *validate.Validator
	boundary validate.Boundary
	guard    Guard
	onPath   []bool
	visited  []bool
	path     []int
	result   *Result
}

func (w *walker) push(i int) error {
	w.onPath[i] = true
	w.path = append(w.path, i)
	defer func() {
		w.onPath[i] = false
		w.path = w.path[:len(w.path)-1]
	}()

	pred := w.g.tasks[i]
	for _, ci := range w.g.successors[i] {
		if w.onPath[ci] {
			return w.cycle(ci)
		}
		child := w.g.tasks[ci]
		if w.boundary.Satisfied(child.PlanStart, pred.PlanDue) {
			continue
		}
		if w.visited[ci] {
			continue
		}
		w.visited[ci] = true

		shifted := *child
		newStart := w.boundary.EarliestStart(pred.PlanDue)
		shifted.Reschedule(newStart, calendar.AddDays(newStart, child.DurationDays()))
		if err := w.check(ci, &shifted); err != nil {
			w.result.Failed = append(w.result.Failed, Failure{
				Task:           child,
				AttemptedStart: shifted.PlanStart,
				AttemptedDue:   shifted.PlanDue,
				Err:            err,
			})
			continue
		}

		*child = shifted
		w.result.Updated = append(w.result.Updated, child)
		if err := w.push(ci); err != nil {
			return err
		}
	}
	return nil
}

// check decides whether the task at i may take the dates of shifted.
func (w *walker) check(i int, shifted *domain.Task) error {
	if w.guard != nil {
		if err := w.guard(w.g.tasks[i]); err != nil {
			return err
		}
	}
	vs := w.v.Dates(shifted, w.g.Refs(shifted).Parent)
	vs = append(vs, w.v.Children(shifted, w.g.subTasks(i))...)
	return domain.NewValidationError(vs)
}

func (w *walker) cycle(revisited int) error {
	path := make([]string, 0, len(w.path)+1)
	start := 0
	for k, i := range w.path {
		if i == revisited {
			start = k
			break
		}
	}
	for _, i := range w.path[start:] {
		path = append(path, w.g.tasks[i].Code)
	}
	path = append(path, w.g.tasks[revisited].Code)
	return &domain.CycleDetectedError{Path: path}
}
