package controller

// Message types.
type scanStartedMsg struct {
	info ScanInfo
}

type pointCompletedMsg struct {
	index   int
	coords  []any
	results map[string]any
}

type doneMsg struct {
	err error
}
