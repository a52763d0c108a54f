// Package adapter holds the collaborator boundaries of the scan engine:
// result sinks, the pause scheduler, the core device clock and the fragment
// contract, along with local implementations of each.
package adapter

import "fmt"

// ResultSink is an append-only or overwrite destination for coordinate and
// result values. External consumers (plotting, persistence) observe scan
// progress through sinks instead of polling.
type ResultSink interface {
	Push(value any)
}

// ArraySink stores all pushed values in order.
type ArraySink struct {
	data []any
}

// NewArraySink creates an empty ArraySink.
func NewArraySink() *ArraySink { return &ArraySink{} }

func (s *ArraySink) Push(value any) { s.data = append(s.data, value) }

// GetAll returns all previously pushed values.
func (s *ArraySink) GetAll() []any { return s.data }

// GetLast returns the last-pushed value, or nil if none yet.
func (s *ArraySink) GetLast() any {
	if len(s.data) == 0 {
		return nil
	}
	return s.data[len(s.data)-1]
}

// Clear drops all previously pushed values.
func (s *ArraySink) Clear() { s.data = nil }

// LastValueSink stores only the last-pushed value.
type LastValueSink struct {
	value any
	set   bool
}

// NewLastValueSink creates an empty LastValueSink.
func NewLastValueSink() *LastValueSink { return &LastValueSink{} }

func (s *LastValueSink) Push(value any) {
	s.value = value
	s.set = true
}

// GetLast returns the last-pushed value, or nil if none yet.
func (s *LastValueSink) GetLast() any { return s.value }

// SingleUseSink accepts exactly one value until reset. The result batcher
// uses it to intercept fragment pushes so that incomplete or failed points
// never desynchronise the downstream struct-of-arrays datasets.
type SingleUseSink struct {
	value any
	set   bool
}

// NewSingleUseSink creates an empty SingleUseSink.
func NewSingleUseSink() *SingleUseSink { return &SingleUseSink{} }

func (s *SingleUseSink) Push(value any) {
	if s.set {
		panic(fmt.Sprintf("result pushed twice within one point (value %v)", value))
	}
	s.value = value
	s.set = true
}

// IsSet reports whether a value has been pushed since the last reset.
func (s *SingleUseSink) IsSet() bool { return s.set }

// Get returns the pushed value.
func (s *SingleUseSink) Get() any { return s.value }

// Reset discards any pushed value.
func (s *SingleUseSink) Reset() {
	s.value = nil
	s.set = false
}

// CallbackSink forwards every push to an inner sink and invokes fn
// afterwards. Used to feed live observers (e.g. the TUI) off the committed
// value stream.
type CallbackSink struct {
	Inner ResultSink
	Fn    func(value any)
}

func (s *CallbackSink) Push(value any) {
	if s.Inner != nil {
		s.Inner.Push(value)
	}
	if s.Fn != nil {
		s.Fn(value)
	}
}
