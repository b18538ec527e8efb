// Package ui renders generation progress in a terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"genarity/internal/engine"
)

// visibleTargets caps the list below the header.
const visibleTargets = 8

type progressModel struct {
	title    string
	events   <-chan engine.Event
	spinner  spinner.Model
	prog     progress.Model
	items    []targetItem
	index    map[string]int
	total    int
	finished int
	failed   int
	phase    string
	width    int
	done     bool
}

type targetItem struct {
	name   string
	status string
}

type eventMsg engine.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model fed by engine events. The
// model quits when events is closed.
func NewProgressModel(title string, events <-chan engine.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(engine.Event(msg)), m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = max(msg.Width-4, 10)
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	header := m.title
	if m.phase != "" {
		header = fmt.Sprintf("%s (%s)", header, m.phase)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	fmt.Fprintf(&b, "  %d/%d", m.finished, m.total)
	if m.failed > 0 {
		b.WriteString(styleStatus("error").Render(fmt.Sprintf("  %d failed", m.failed)))
	}
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	first := max(len(m.items)-visibleTargets, 0)
	for _, it := range m.items[first:] {
		fmt.Fprintf(&b, "  %s %s\n", styleStatus(it.status).Render(fmt.Sprintf("%10s", it.status)), truncate(it.name, nameWidth))
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev engine.Event) tea.Cmd {
	if ev.Total > 0 {
		m.total = ev.Total
	}
	if ev.Target == "" {
		m.phase = string(ev.Stage)
		return nil
	}
	idx, ok := m.index[ev.Target]
	if !ok {
		idx = len(m.items)
		m.index[ev.Target] = idx
		m.items = append(m.items, targetItem{name: ev.Target})
	}
	it := &m.items[idx]
	prev := it.status
	it.status = statusLabel(ev.Stage, ev.Status)
	if terminal(it.status) && !terminal(prev) {
		m.finished++
		if it.status == "error" {
			m.failed++
		}
	}
	if m.total == 0 {
		return nil
	}
	return m.prog.SetPercent(float64(m.finished) / float64(m.total))
}

func terminal(status string) bool {
	return status == "done" || status == "skipped" || status == "error"
}

func statusLabel(stage engine.Stage, status engine.Status) string {
	switch status {
	case engine.StatusWorking:
		switch stage {
		case engine.StageValidate:
			return "checking"
		case engine.StageReduce:
			return "reducing"
		default:
			return "emitting"
		}
	case engine.StatusDone:
		return "done"
	case engine.StatusSkipped:
		return "skipped"
	case engine.StatusError:
		return "error"
	default:
		return "queued"
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "skipped":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "checking", "reducing", "emitting":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
