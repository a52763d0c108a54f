package controller

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingControl records which scheduler surfaces the monitor drove.
type recordingControl struct {
	pauses, resumes, terminations int
}

func (c *recordingControl) RequestPause()       { c.pauses++ }
func (c *recordingControl) Resume()             { c.resumes++ }
func (c *recordingControl) RequestTermination() { c.terminations++ }

func update(t *testing.T, m scanModel, msg tea.Msg) (scanModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(scanModel)
	require.True(t, ok)
	return model, cmd
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestScanModel_TracksProgress(t *testing.T) {
	m := newScanModel(&recordingControl{})

	m, _ = update(t, m, scanStartedMsg{info: ScanInfo{
		FragmentFQN: "sim_rabi_flop",
		AxisNames:   []string{"rabi_flop.freq"},
		TotalPoints: 4,
	}})
	assert.True(t, m.started)

	m, _ = update(t, m, pointCompletedMsg{index: 0, coords: []any{0.5}, results: map[string]any{"readout/p": 0.25}})
	m, _ = update(t, m, pointCompletedMsg{index: 1, coords: []any{1.0}, results: map[string]any{"readout/p": 0.75}})
	assert.Equal(t, 2, m.completed)
	assert.Len(t, m.recent, 2)

	view := m.View()
	assert.Contains(t, view, "sim_rabi_flop")
	assert.Contains(t, view, "2/4")
}

func TestScanModel_RecentPointsAreBounded(t *testing.T) {
	m := newScanModel(&recordingControl{})
	for i := range 20 {
		m, _ = update(t, m, pointCompletedMsg{index: i, coords: []any{0.0}})
	}
	assert.Len(t, m.recent, recentPointRows)
	assert.Equal(t, 20, m.completed)
}

func TestScanModel_PauseToggle(t *testing.T) {
	ctl := &recordingControl{}
	m := newScanModel(ctl)

	m, _ = update(t, m, key("p"))
	assert.True(t, m.paused)
	assert.Equal(t, 1, ctl.pauses)
	assert.Contains(t, m.View(), "paused")

	m, _ = update(t, m, key(" "))
	assert.False(t, m.paused)
	assert.Equal(t, 1, ctl.resumes)
}

func TestScanModel_QuitRequestsTermination(t *testing.T) {
	ctl := &recordingControl{}
	m := newScanModel(ctl)

	// While running, q asks the scan to shut down instead of closing the
	// monitor out from under it.
	m, cmd := update(t, m, key("q"))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, ctl.terminations)

	// Once done, q quits.
	m, cmd = update(t, m, doneMsg{})
	require.NotNil(t, cmd)
	_, cmd = update(t, m, key("q"))
	require.NotNil(t, cmd)
}

func TestScanModel_DoneQuitsAndShowsError(t *testing.T) {
	m := newScanModel(&recordingControl{})
	m, cmd := update(t, m, doneMsg{err: assert.AnError})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "scan failed")
}
