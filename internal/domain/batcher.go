package domain

import (
	"fmt"
	"log/slog"

	"github.com/atomloop/sweep/internal/adapter"
)

// ResultBatcher intercepts all result channel sinks of a fragment, making
// sure every channel has seen exactly one push before the results are
// forwarded to the originally attached sinks in one batch.
//
// This keeps buggy fragments that do not always push a result, and points
// that failed halfway through, from desynchronising downstream datasets
// (where the indices in the struct-of-arrays construction must match up).
// Retried points discard the failed attempt's pushes, so only the
// successful attempt is ever visible downstream.
type ResultBatcher struct {
	fragment  adapter.Fragment
	origSinks map[*adapter.ResultChannel]adapter.ResultSink
	log       *slog.Logger
}

// NewResultBatcher creates a batcher for the fragment's channels; no
// interception happens until Install.
func NewResultBatcher(fragment adapter.Fragment, log *slog.Logger) *ResultBatcher {
	return &ResultBatcher{
		fragment:  fragment,
		origSinks: map[*adapter.ResultChannel]adapter.ResultSink{},
		log:       log,
	}
}

// Install starts intercepting results. Channels without a sink stay
// untouched.
func (b *ResultBatcher) Install() {
	for _, channel := range b.fragment.ResultChannels() {
		if channel.Sink() == nil {
			continue
		}
		b.origSinks[channel] = channel.Sink()
		channel.SetSink(adapter.NewSingleUseSink())
	}
}

// DiscardCurrent drops any results pushed for the current point, e.g. after
// a failed attempt that is about to be retried.
func (b *ResultBatcher) DiscardCurrent() {
	for channel := range b.origSinks {
		sink := channel.Sink().(*adapter.SingleUseSink)
		if sink.IsSet() {
			// Normal when a transitory error interrupts a point.
			b.log.Debug("discarding result", "channel", channel.Path)
		}
		sink.Reset()
	}
}

// EnsureCompleteAndPush checks that each intercepted channel has been
// pushed to, failing if not, and then forwards the batch to the original
// sinks.
func (b *ResultBatcher) EnsureCompleteAndPush() error {
	for channel := range b.origSinks {
		if !channel.Sink().(*adapter.SingleUseSink).IsSet() {
			return fmt.Errorf("missing value for result channel %q (no push for current point)", channel.Path)
		}
	}
	for channel, orig := range b.origSinks {
		sink := channel.Sink().(*adapter.SingleUseSink)
		orig.Push(sink.Get())
		sink.Reset()
	}
	return nil
}

// Remove stops intercepting, discarding any half-pushed point and restoring
// the original sinks.
func (b *ResultBatcher) Remove() {
	b.DiscardCurrent()
	for channel, orig := range b.origSinks {
		channel.SetSink(orig)
	}
	clear(b.origSinks)
}
