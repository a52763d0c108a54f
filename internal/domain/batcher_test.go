package domain

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomloop/sweep/internal/adapter"
)

func TestResultBatcher_BatchesCompletePoints(t *testing.T) {
	fragment := adapter.NewRabiFlopFragment("/")
	downstream := adapter.NewArraySink()
	fragment.Readout().SetSink(downstream)

	b := NewResultBatcher(fragment, slog.New(slog.DiscardHandler))
	b.Install()

	fragment.Readout().Push(0.25)
	// Nothing reaches the original sink until the point is committed.
	assert.Empty(t, downstream.GetAll())

	require.NoError(t, b.EnsureCompleteAndPush())
	assert.Equal(t, []any{0.25}, downstream.GetAll())

	fragment.Readout().Push(0.5)
	require.NoError(t, b.EnsureCompleteAndPush())
	assert.Equal(t, []any{0.25, 0.5}, downstream.GetAll())
}

func TestResultBatcher_MissingValue(t *testing.T) {
	fragment := adapter.NewRabiFlopFragment("/")
	fragment.Readout().SetSink(adapter.NewArraySink())

	b := NewResultBatcher(fragment, slog.New(slog.DiscardHandler))
	b.Install()
	defer b.Remove()

	err := b.EnsureCompleteAndPush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "readout/p")
}

func TestResultBatcher_DiscardCurrent(t *testing.T) {
	fragment := adapter.NewRabiFlopFragment("/")
	downstream := adapter.NewArraySink()
	fragment.Readout().SetSink(downstream)

	b := NewResultBatcher(fragment, slog.New(slog.DiscardHandler))
	b.Install()
	defer b.Remove()

	fragment.Readout().Push(0.25)
	b.DiscardCurrent()

	// The discarded attempt is gone; the retry's value goes through alone.
	fragment.Readout().Push(0.75)
	require.NoError(t, b.EnsureCompleteAndPush())
	assert.Equal(t, []any{0.75}, downstream.GetAll())
}

func TestResultBatcher_DoublePushPanics(t *testing.T) {
	fragment := adapter.NewRabiFlopFragment("/")
	fragment.Readout().SetSink(adapter.NewArraySink())

	b := NewResultBatcher(fragment, slog.New(slog.DiscardHandler))
	b.Install()
	defer b.Remove()

	fragment.Readout().Push(0.25)
	assert.Panics(t, func() { fragment.Readout().Push(0.5) })
}

func TestResultBatcher_RemoveRestoresSinks(t *testing.T) {
	fragment := adapter.NewRabiFlopFragment("/")
	downstream := adapter.NewArraySink()
	fragment.Readout().SetSink(downstream)

	b := NewResultBatcher(fragment, slog.New(slog.DiscardHandler))
	b.Install()
	fragment.Readout().Push(0.25)
	b.Remove()

	// The half-pushed point was discarded with the interception.
	assert.Empty(t, downstream.GetAll())
	assert.Same(t, adapter.ResultSink(downstream), fragment.Readout().Sink())

	fragment.Readout().Push(0.5)
	assert.Equal(t, []any{0.5}, downstream.GetAll())
}

func TestResultBatcher_SkipsSinklessChannels(t *testing.T) {
	fragment := adapter.NewRabiFlopFragment("/")

	b := NewResultBatcher(fragment, slog.New(slog.DiscardHandler))
	b.Install()
	defer b.Remove()

	assert.Nil(t, fragment.Readout().Sink())
	// With no channel intercepted an empty point is trivially complete.
	assert.NoError(t, b.EnsureCompleteAndPush())
}
