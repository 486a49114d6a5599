package treesync

import (
	"fmt"
	"io"
)

// Actions named in diagnostics.
const (
	ActionCreate = "create"
	ActionCopy   = "copy"
	ActionDelete = "delete"
)

// Diagnostic describes one localized failure. A run that produced
// diagnostics still completed.
type Diagnostic struct {
	Action string
	Path   string
	Err    error
	// Detected marks filesystem-level conditions hit while walking,
	// reported without the action and error detail.
	Detected bool
}

func (d Diagnostic) String() string {
	if d.Detected {
		return "detected: " + d.Path
	}
	return fmt.Sprintf("Unable to %s: %s: %v", d.Action, d.Path, d.Err)
}

// Reporter receives diagnostics as they happen.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc is a function adapter for Reporter.
type ReporterFunc func(d Diagnostic)

// Report implements Reporter.
func (f ReporterFunc) Report(d Diagnostic) {
	f(d)
}

// WriterReporter writes one line per diagnostic to w. It is not safe for
// concurrent use.
type WriterReporter struct {
	w io.Writer
}

// NewWriterReporter creates a reporter writing to w, usually os.Stderr.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

// Report implements Reporter.
func (r *WriterReporter) Report(d Diagnostic) {
	_, _ = fmt.Fprintln(r.w, d.String())
}

var discardReporter = ReporterFunc(func(Diagnostic) {})
