package controller

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const recentPointRows = 8

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	pausedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// scanModel is the Bubble Tea model of the live scan monitor.
type scanModel struct {
	ctl ScanControl

	info      ScanInfo
	started   bool
	completed int
	recent    []string
	paused    bool
	done      bool
	err       error

	spin spinner.Model
	prog progress.Model

	width int
}

func newScanModel(ctl ScanControl) scanModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return scanModel{
		ctl:  ctl,
		spin: sp,
		prog: progress.New(progress.WithDefaultGradient()),
	}
}

func (m scanModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.prog.Width = min(msg.Width-4, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.done {
				return m, tea.Quit
			}
			m.ctl.RequestTermination()
			return m, nil
		case "p", " ":
			if m.done {
				return m, nil
			}
			if m.paused {
				m.ctl.Resume()
			} else {
				m.ctl.RequestPause()
			}
			m.paused = !m.paused
			return m, nil
		}
		return m, nil

	case scanStartedMsg:
		m.info = msg.info
		m.started = true
		return m, nil

	case pointCompletedMsg:
		m.completed = msg.index + 1
		m.recent = append(m.recent, formatPoint(m.info, msg))
		if len(m.recent) > recentPointRows {
			m.recent = m.recent[len(m.recent)-recentPointRows:]
		}
		return m, nil

	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m scanModel) View() string {
	var b strings.Builder

	title := "scan"
	if m.started {
		title = fmt.Sprintf("scanning %s over %s",
			m.info.FragmentFQN, strings.Join(m.info.AxisNames, ", "))
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if m.started {
		b.WriteString(labelStyle.Render("seed "))
		b.WriteString(valueStyle.Render(fmt.Sprint(m.info.Seed)))
		if m.info.Device {
			b.WriteString(labelStyle.Render("  device strategy"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("scan failed: %v", m.err)))
		b.WriteString("\n")
	case m.done:
		b.WriteString(fmt.Sprintf("scan complete, %d points\n", m.completed))
	case m.paused:
		b.WriteString(pausedStyle.Render("paused"))
		b.WriteString(fmt.Sprintf("  %d points\n", m.completed))
	case m.info.TotalPoints > 0:
		ratio := float64(m.completed) / float64(m.info.TotalPoints)
		b.WriteString(m.prog.ViewAs(ratio))
		b.WriteString(fmt.Sprintf("  %d/%d\n", m.completed, m.info.TotalPoints))
	default:
		b.WriteString(m.spin.View())
		b.WriteString(fmt.Sprintf(" %d points\n", m.completed))
	}
	b.WriteString("\n")

	for _, line := range m.recent {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("p pause/resume · q quit"))
	b.WriteString("\n")
	return b.String()
}

func formatPoint(info ScanInfo, msg pointCompletedMsg) string {
	parts := make([]string, 0, len(msg.coords)+len(msg.results))
	for i, c := range msg.coords {
		name := fmt.Sprint(i)
		if i < len(info.AxisNames) {
			name = info.AxisNames[i]
		}
		parts = append(parts, fmt.Sprintf("%s=%s", labelStyle.Render(name), valueStyle.Render(formatValue(c))))
	}
	paths := make([]string, 0, len(msg.results))
	for path := range msg.results {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		parts = append(parts,
			fmt.Sprintf("%s=%s", labelStyle.Render(path), valueStyle.Render(formatValue(msg.results[path]))))
	}
	return fmt.Sprintf("%5d  %s", msg.index, strings.Join(parts, "  "))
}

func formatValue(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.5g", f)
	}
	return fmt.Sprint(v)
}
