package tui

import (
	"fmt"

	"github.com/msambhus/team-asha-randonneuring/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	units        Units
	data         *service.DashboardData
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService, units Units) DashboardModel {
	return DashboardModel{
		queryService: qs,
		units:        units,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData()
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil || m.data.RidersTotal == 0 {
		return "\n  No riders yet. Add riders and press 's' to sync with Strava."
	}

	var sections []string

	// Top row: club readiness and leaderboard side by side
	readinessCard := m.renderReadinessCard()
	leaderboard := m.renderLeaderboard()
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, readinessCard, "  ", leaderboard)
	sections = append(sections, topRow)

	// Distance trend chart
	if hasNonZero(m.data.DailyDistanceKm) {
		sections = append(sections, m.renderChart())
	}

	// Recent activities
	sections = append(sections, m.renderRecentActivities())

	help := statusStyle.Render("Press 'r' to refresh, 's' to sync, '2' for riders")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderReadinessCard() string {
	title := cardTitleStyle.Render("Club Readiness")

	lines := []string{
		RenderMetric("Average", fmt.Sprintf("%d / 100", m.data.ClubReadiness)),
		RenderProgressBar(float64(m.data.ClubReadiness)/100, 24),
		"",
		RenderMetric("Riders scored", fmt.Sprintf("%d of %d", m.data.RidersScored, m.data.RidersTotal)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderLeaderboard() string {
	title := cardTitleStyle.Render("Eddington Standings")

	if len(m.data.TopStandings) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No scores yet"))
	}

	var rows []string
	for i, s := range m.data.TopStandings {
		score := "-"
		eddington := "-"
		badge := ""
		if s.Score != nil {
			score = fmt.Sprintf("%3d", s.Score.Total)
			eddington = fmt.Sprintf("E %d mi", s.Score.EddingtonMiles)
		}
		if s.HasBadge {
			badge = RenderBadge(s.Badge.Label, s.Badge.Color, s.Badge.Symbol)
		}

		row := fmt.Sprintf("%d. %-16s %s  %-8s  ", i+1, truncateName(s.Rider.Name, 16), score, eddington)
		rows = append(rows, tableRowStyle.Render(row)+badge)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderChart() string {
	title := cardTitleStyle.Render(fmt.Sprintf("Daily Distance (%s) - Last %d Days", m.units.DistanceLabel(), len(m.data.DailyDistanceKm)))

	series := m.units.ConvertKmSeries(m.data.DailyDistanceKm)
	graph := asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderRecentActivities() string {
	title := cardTitleStyle.Render("Recent Activity")

	if len(m.data.RecentActivities) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No activities yet"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-24s  %9s  %7s",
		"Date", "Name", "Distance", "Time"))

	rows := []string{header}
	for i, a := range m.data.RecentActivities {
		if i >= 5 {
			break
		}

		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-24s  %9s  %7s",
			a.StartDateLocal.Format("Jan 02"),
			truncateName(a.Name, 24),
			m.units.FormatDistance(a.Distance),
			formatDuration(a.MovingTime),
		))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func hasNonZero(series []float64) bool {
	for _, v := range series {
		if v > 0 {
			return true
		}
	}
	return false
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
