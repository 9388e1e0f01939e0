package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/awsbudi/risk-tracker/internal/calendar"
)

// Boundary decides how a dependent's start relates to its predecessor's due
// date.
type Boundary string

const (
	// BoundarySameDay allows a dependent to start on the day its
	// predecessor is due.
	BoundarySameDay Boundary = "same_day"
	// BoundaryStrict requires a dependent to start after that day.
	BoundaryStrict Boundary = "strict"
)

// ParseBoundary reads a boundary name; the empty string yields the default.
func ParseBoundary(s string) (Boundary, error) {
	switch Boundary(strings.ToLower(strings.TrimSpace(s))) {
	case "", BoundarySameDay:
		return BoundarySameDay, nil
	case BoundaryStrict:
		return BoundaryStrict, nil
	}
	return "", fmt.Errorf("unknown dependency boundary %q (want same_day or strict)", s)
}

// Satisfied reports whether a task starting on start may follow a
// predecessor due on predecessorDue.
func (b Boundary) Satisfied(start, predecessorDue time.Time) bool {
	if b == BoundaryStrict {
		return start.After(predecessorDue)
	}
	return !start.Before(predecessorDue)
}

// EarliestStart is the first start date that satisfies the boundary.
func (b Boundary) EarliestStart(predecessorDue time.Time) time.Time {
	if b == BoundaryStrict {
		return calendar.AddDays(predecessorDue, 1)
	}
	return predecessorDue
}

func (b Boundary) describe() string {
	if b == BoundaryStrict {
		return "after"
	}
	return "on or after"
}
