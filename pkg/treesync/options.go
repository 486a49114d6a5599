package treesync

import (
	"github.com/rs/zerolog"
)

type options struct {
	logger   zerolog.Logger
	reporter Reporter
	filter   *Filter
	result   *Result
}

// Option configures a pass or a Sync run.
type Option func(*options)

// WithLogger sets the logger used for progress events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithReporter sets where diagnostics are sent in addition to the Result.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithFilter excludes matching entries from the pass.
func WithFilter(f *Filter) Option {
	return func(o *options) {
		o.filter = f
	}
}

// WithResult makes the pass accumulate into an existing Result.
func WithResult(r *Result) Option {
	return func(o *options) {
		if r != nil {
			o.result = r
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:   zerolog.Nop(),
		reporter: discardReporter,
		result:   &Result{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// report records d and forwards it to the reporter.
func (o *options) report(d Diagnostic) {
	o.result.Diagnostics = append(o.result.Diagnostics, d)
	o.reporter.Report(d)
	o.logger.Debug().
		Str("action", d.Action).
		Str("path", d.Path).
		Bool("detected", d.Detected).
		Err(d.Err).
		Msg("entry failed")
}

// visitFailed applies the classification shared by both passes.
func (o *options) visitFailed(action, path string, err error) {
	o.report(Diagnostic{
		Action:   action,
		Path:     path,
		Err:      err,
		Detected: IsFilesystemCondition(err),
	})
}
