package controller

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleUI_ReportsProgress(t *testing.T) {
	var out bytes.Buffer
	ui := NewSimpleUI(&out)

	ui.ScanStarted(ScanInfo{
		FragmentFQN: "sim_rabi_flop",
		AxisNames:   []string{"rabi_flop.freq"},
		Seed:        42,
		TotalPoints: 2,
	})
	ui.PointCompleted(0, []any{0.5}, map[string]any{"readout/p": 0.25})
	ui.PointCompleted(1, []any{1.0}, map[string]any{"readout/p": 0.75})
	ui.Done(nil)

	require.NoError(t, ui.Run())

	text := out.String()
	assert.Contains(t, text, "scanning sim_rabi_flop over rabi_flop.freq")
	assert.Contains(t, text, "seed 42")
	assert.Contains(t, text, "rabi_flop.freq=0.5")
	assert.Contains(t, text, "readout/p=0.25")
	assert.Contains(t, text, "scan complete")
}

func TestSimpleUI_ReportsFailure(t *testing.T) {
	var out bytes.Buffer
	ui := NewSimpleUI(&out)

	ui.ScanStarted(ScanInfo{FragmentFQN: "sim_rabi_flop", Device: true})
	ui.Done(errors.New("core device unreachable"))
	require.NoError(t, ui.Run())

	assert.Contains(t, out.String(), "device strategy")
	assert.Contains(t, out.String(), "scan failed: core device unreachable")
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestNewUI_NonInteractiveFallsBackToPlainText(t *testing.T) {
	ui := NewUI(&bytes.Buffer{}, nil)
	assert.IsType(t, &SimpleUI{}, ui)
}
