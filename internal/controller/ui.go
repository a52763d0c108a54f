// Package controller provides the user-facing surfaces observing a running
// scan: a plain-text progress printer and a Bubble Tea live monitor.
package controller

import (
	"io"
	"os"
)

// ScanInfo is the static header information of a scan, shown once at start.
type ScanInfo struct {
	FragmentFQN string
	AxisNames   []string
	Seed        int64

	// TotalPoints is the number of points the scan will visit, or 0 when
	// the scan is infinite (refining axes) and only progress-so-far can be
	// shown.
	TotalPoints int

	Device bool
}

// UI observes scan progress. The report methods are called from the scan
// goroutine and must not block it on rendering; Run blocks until the scan
// is done (and, for the interactive monitor, until its session exits).
type UI interface {
	// Run drives the UI until Done has been reported.
	Run() error

	ScanStarted(info ScanInfo)

	// PointCompleted reports one committed point: its index, the coordinate
	// per axis (ordered as ScanInfo.AxisNames) and the fragment's result
	// values per channel path.
	PointCompleted(index int, coords []any, results map[string]any)

	// Done reports the end of the scan; err is nil for normal completion
	// and for a requested termination.
	Done(err error)
}

// NewUI creates a UI matching the output: the Bubble Tea monitor on an
// interactive terminal, plain text otherwise.
func NewUI(out io.Writer, ctl ScanControl) UI {
	if IsTTY(out) {
		return NewTUI(out, ctl)
	}
	return NewSimpleUI(out)
}

// ScanControl is the slice of the scheduler surface the interactive monitor
// drives from keypresses.
type ScanControl interface {
	RequestPause()
	Resume()
	RequestTermination()
}

// IsTTY reports whether the writer is an interactive terminal rather than a
// redirected file or pipe.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
