package adapter

import "github.com/atomloop/sweep/internal/model"

// ResultChannel is a named output of a fragment. Fragment code pushes one
// value per executed point; whatever sink is attached receives it.
type ResultChannel struct {
	// Path of the channel in the fragment tree (e.g. "readout/p").
	Path string

	Type model.ParamType

	// SaveByDefault marks channels that external consumers should persist.
	SaveByDefault bool

	sink ResultSink
}

// NewResultChannel creates a channel with no sink attached.
func NewResultChannel(path string, typ model.ParamType) *ResultChannel {
	return &ResultChannel{Path: path, Type: typ, SaveByDefault: true}
}

// Push records a value for the current point. Pushes without an attached
// sink are dropped.
func (c *ResultChannel) Push(value any) {
	if c.sink != nil {
		c.sink.Push(value)
	}
}

// Sink returns the currently attached sink, or nil.
func (c *ResultChannel) Sink() ResultSink { return c.sink }

// SetSink attaches (or, with nil, detaches) the sink receiving pushes.
func (c *ResultChannel) SetSink(sink ResultSink) { c.sink = sink }

// Describe returns the channel metadata in stringly typed form.
func (c *ResultChannel) Describe() map[string]any {
	return map[string]any{
		"path": c.Path,
		"type": string(c.Type),
	}
}
