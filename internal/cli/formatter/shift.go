package formatter

import (
	"time"

	"github.com/awsbudi/risk-tracker/internal/cascade"
)

// FailedShift is a dependent the cascade could not move.
type FailedShift struct {
	Code    string
	Start   time.Time
	Due     time.Time
	Reasons []string
}

// FailedShifts converts cascade failures for FormatReschedule.
func FailedShifts(failures []cascade.Failure) []FailedShift {
	out := make([]FailedShift, 0, len(failures))
	for _, f := range failures {
		out = append(out, FailedShift{
			Code:    f.Task.Code,
			Start:   f.AttemptedStart,
			Due:     f.AttemptedDue,
			Reasons: ErrorLines(f.Err),
		})
	}
	return out
}
