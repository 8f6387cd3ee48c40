package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Riders"},
		{"3", "Activities list"},
		{"4 or s", "Sync screen"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	})
	sections = append(sections, navSection)

	ridersSection := m.renderSection("Riders", []keyHelp{
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"enter", "Open rider detail"},
		{"r", "Refresh"},
	})
	sections = append(sections, ridersSection)

	syncSection := m.renderSection("Sync Screen", []keyHelp{
		{"s / enter", "Start club sync"},
	})
	sections = append(sections, syncSection)

	sections = append(sections, m.renderScoresHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderScoresHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Scores Explained"))
	lines = append(lines, "")

	scores := []struct {
		name string
		desc string
	}{
		{"Readiness (0-100)", "Frequency + volume + intensity + recency over the last 28 days."},
		{"Eddington number", "Largest E where the rider logged at least E miles on E different days."},
		{"Badge", "Band of the miles Eddington number, from Getting Started to Legendary."},
		{"Brevet grade (A-F)", "Distance, climbing, intensity, and progressive overload for one finished ride."},
	}

	for _, s := range scores {
		lines = append(lines, "  "+helpKeyStyle.Render(s.name))
		lines = append(lines, "  "+helpDescStyle.Render(s.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
