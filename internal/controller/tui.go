package controller

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI is the interactive live monitor. The report methods only post
// messages to the Bubble Tea program, so the scan goroutine never blocks on
// rendering.
type TUI struct {
	program *tea.Program
}

// NewTUI creates the monitor writing to out; nothing renders until Run.
func NewTUI(out io.Writer, ctl ScanControl) *TUI {
	return &TUI{program: tea.NewProgram(newScanModel(ctl), tea.WithOutput(out))}
}

// Run drives the monitor; it returns once the model quit after a doneMsg
// (or the user dismissed a failed scan).
func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

func (t *TUI) ScanStarted(info ScanInfo) {
	t.program.Send(scanStartedMsg{info: info})
}

func (t *TUI) PointCompleted(index int, coords []any, results map[string]any) {
	t.program.Send(pointCompletedMsg{index: index, coords: coords, results: results})
}

func (t *TUI) Done(err error) {
	t.program.Send(doneMsg{err: err})
}
