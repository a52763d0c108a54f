package controller

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// SimpleUI prints scan progress as plain text lines, one per committed
// point. Used when output is piped or otherwise non-interactive.
type SimpleUI struct {
	out  io.Writer
	info ScanInfo
	done chan struct{}
}

// NewSimpleUI creates a plain-text UI writing to out.
func NewSimpleUI(out io.Writer) *SimpleUI {
	return &SimpleUI{out: out, done: make(chan struct{})}
}

// Run blocks until Done has been reported; plain text needs no event loop.
func (u *SimpleUI) Run() error {
	<-u.done
	return nil
}

func (u *SimpleUI) ScanStarted(info ScanInfo) {
	u.info = info
	strategy := "host"
	if info.Device {
		strategy = "device"
	}
	total := "?"
	if info.TotalPoints > 0 {
		total = fmt.Sprint(info.TotalPoints)
	}
	fmt.Fprintf(u.out, "scanning %s over %s (%s strategy, %s points, seed %d)\n",
		info.FragmentFQN, strings.Join(info.AxisNames, ", "), strategy, total, info.Seed)
}

func (u *SimpleUI) PointCompleted(index int, coords []any, results map[string]any) {
	parts := make([]string, 0, len(coords)+len(results))
	for i, c := range coords {
		parts = append(parts, fmt.Sprintf("%s=%v", u.info.AxisNames[i], c))
	}
	paths := make([]string, 0, len(results))
	for path := range results {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		parts = append(parts, fmt.Sprintf("%s=%v", path, results[path]))
	}
	fmt.Fprintf(u.out, "point %4d  %s\n", index, strings.Join(parts, "  "))
}

func (u *SimpleUI) Done(err error) {
	if err != nil {
		fmt.Fprintf(u.out, "scan failed: %v\n", err)
	} else {
		fmt.Fprintln(u.out, "scan complete")
	}
	close(u.done)
}
