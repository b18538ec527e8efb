package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"genarity/internal/engine"
)

// Summary renders the run statistics as a small bordered box.
func Summary(s engine.Stats, outputs int) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Width(11)
	rows := []struct {
		name  string
		value int
		style lipgloss.Style
	}{
		{"candidates", s.Candidates, lipgloss.NewStyle()},
		{"targets", s.Targets, lipgloss.NewStyle()},
		{"accepted", s.Accepted, lipgloss.NewStyle().Foreground(lipgloss.Color("2"))},
		{"rejected", s.Rejected, lipgloss.NewStyle().Foreground(lipgloss.Color("1"))},
		{"outputs", outputs, lipgloss.NewStyle().Bold(true)},
		{"unchanged", s.Reused, lipgloss.NewStyle().Faint(true)},
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = label.Render(r.name) + r.style.Render(fmt.Sprintf("%5d", r.value))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
