package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomloop/sweep/internal/model"
)

func TestNeverPause(t *testing.T) {
	s := NeverPause{}
	assert.False(t, s.CheckPause())
	assert.NoError(t, s.Pause())
}

func TestManualScheduler_PauseResume(t *testing.T) {
	s := NewManualScheduler()
	assert.False(t, s.CheckPause())

	// Not paused: Pause returns immediately.
	require.NoError(t, s.Pause())

	s.RequestPause()
	assert.True(t, s.CheckPause())

	returned := make(chan error, 1)
	go func() { returned <- s.Pause() }()

	select {
	case err := <-returned:
		t.Fatalf("Pause returned while still paused: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	s.Resume()
	select {
	case err := <-returned:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Pause did not return after Resume")
	}
	assert.False(t, s.CheckPause())
}

func TestManualScheduler_TerminationUnblocksPause(t *testing.T) {
	s := NewManualScheduler()
	s.RequestPause()

	returned := make(chan error, 1)
	go func() { returned <- s.Pause() }()

	s.RequestTermination()
	select {
	case err := <-returned:
		assert.ErrorIs(t, err, model.ErrTerminationRequested)
	case <-time.After(time.Second):
		t.Fatal("Pause did not return after termination request")
	}
	assert.True(t, s.CheckPause())
}

func TestManualScheduler_TerminatedPauseReturnsImmediately(t *testing.T) {
	s := NewManualScheduler()
	s.RequestTermination()
	assert.True(t, s.CheckPause())
	assert.ErrorIs(t, s.Pause(), model.ErrTerminationRequested)
}
