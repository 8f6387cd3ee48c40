package tui

import (
	"fmt"

	"github.com/msambhus/team-asha-randonneuring/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ActivitiesModel is the club-wide activities list screen model
type ActivitiesModel struct {
	queryService *service.QueryService
	units        Units
	activities   []service.ActivityWithRider
	cursor       int
	offset       int
	total        int
	pageSize     int
	loading      bool
	err          error
}

// NewActivitiesModel creates a new activities model
func NewActivitiesModel(qs *service.QueryService, units Units) ActivitiesModel {
	return ActivitiesModel{
		queryService: qs,
		units:        units,
		pageSize:     15,
		loading:      true,
	}
}

// Init initializes the activities screen
func (m ActivitiesModel) Init() tea.Cmd {
	return m.loadPage
}

type activitiesLoadedMsg struct {
	activities []service.ActivityWithRider
	total      int
	err        error
}

func (m ActivitiesModel) loadPage() tea.Msg {
	activities, err := m.queryService.GetActivitiesPage(m.pageSize, m.offset)
	if err != nil {
		return activitiesLoadedMsg{err: err}
	}

	total, err := m.queryService.GetTotalActivityCount()
	if err != nil {
		return activitiesLoadedMsg{err: err}
	}

	return activitiesLoadedMsg{activities: activities, total: total}
}

// Update handles messages
func (m ActivitiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activitiesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.activities = msg.activities
		m.total = msg.total
		if m.cursor >= len(m.activities) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				m.offset -= m.pageSize
				m.cursor = m.pageSize - 1
				m.loading = true
				return m, m.loadPage
			}
		case "down", "j":
			if m.cursor < len(m.activities)-1 {
				m.cursor++
			} else if m.offset+m.pageSize < m.total {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "r":
			m.loading = true
			return m, m.loadPage
		}
	}
	return m, nil
}

// View renders the activities list
func (m ActivitiesModel) View() string {
	if m.loading {
		return "\n  Loading activities..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	title := cardTitleStyle.Render("Club Activities")

	if len(m.activities) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, "\n  No activities yet. Press 's' to sync.")
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-14s  %-24s  %9s  %7s",
		"Date", "Rider", "Name", "Distance", "Time"))

	rows := []string{header}
	for i, ar := range m.activities {
		a := ar.Activity
		line := fmt.Sprintf("%-10s  %-14s  %-24s  %9s  %7s",
			a.StartDateLocal.Format("Jan 02"),
			truncateName(ar.RiderName, 14),
			truncateName(a.Name, 24),
			m.units.FormatDistance(a.Distance),
			formatDuration(a.MovingTime),
		)

		if i == m.cursor {
			rows = append(rows, tableSelectedStyle.Render(line))
		} else {
			rows = append(rows, tableRowStyle.Render(line))
		}
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)

	page := m.offset/m.pageSize + 1
	pages := (m.total + m.pageSize - 1) / m.pageSize
	if pages < 1 {
		pages = 1
	}
	footer := statusStyle.Render(fmt.Sprintf("  Page %d of %d (%d activities)  j/k: move  r: refresh", page, pages, m.total))

	return lipgloss.JoinVertical(lipgloss.Left, title, table, footer)
}
