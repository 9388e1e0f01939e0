package service

import (
	"time"

	"github.com/awsbudi/risk-tracker/internal/access"
	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/validate"
)

// Option configures the collaborators shared by every service.
type Option func(*options)

type options struct {
	observer  UseCaseObserver
	hooks     Hooks
	clock     func() time.Time
	validator *validate.Validator
	hierarchy access.Hierarchy
}

func WithObserver(o UseCaseObserver) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

func WithHooks(h Hooks) Option {
	return func(opts *options) {
		if h != nil {
			opts.hooks = h
		}
	}
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(opts *options) { opts.clock = now }
}

func WithValidator(v *validate.Validator) Option {
	return func(opts *options) { opts.validator = v }
}

func WithHierarchy(h access.Hierarchy) Option {
	return func(opts *options) { opts.hierarchy = h }
}

func buildOptions(opts []Option) options {
	o := options{
		observer:  NoopUseCaseObserver{},
		hooks:     NoopHooks{},
		clock:     time.Now,
		validator: validate.New(calendar.Default, validate.BoundarySameDay),
		hierarchy: access.DefaultHierarchy(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) today() time.Time {
	return calendar.Today(o.clock())
}

func (o options) now() time.Time {
	return o.clock().UTC().Truncate(time.Second)
}
