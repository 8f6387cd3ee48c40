package tui

import (
	"fmt"
	"strings"

	"github.com/msambhus/team-asha-randonneuring/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RidersModel is the roster screen: a rider list that opens a scrollable
// detail view on enter.
type RidersModel struct {
	queryService *service.QueryService
	units        Units

	standings []service.RiderStanding
	cursor    int
	loading   bool
	err       error

	// Detail view
	showingDetail bool
	detail        *service.RiderDetail
	viewport      viewport.Model
	ready         bool
	width         int
	height        int
}

// NewRidersModel creates a new riders model
func NewRidersModel(qs *service.QueryService, units Units) RidersModel {
	return RidersModel{
		queryService: qs,
		units:        units,
		loading:      true,
	}
}

// Init initializes the riders screen
func (m RidersModel) Init() tea.Cmd {
	return m.loadStandings
}

type standingsLoadedMsg struct {
	standings []service.RiderStanding
	err       error
}

type riderDetailLoadedMsg struct {
	detail *service.RiderDetail
	err    error
}

func (m RidersModel) loadStandings() tea.Msg {
	standings, err := m.queryService.GetStandings()
	return standingsLoadedMsg{standings: standings, err: err}
}

func (m RidersModel) loadDetail(riderID int64) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.queryService.GetRiderDetail(riderID)
		return riderDetailLoadedMsg{detail: detail, err: err}
	}
}

// Update handles messages
func (m RidersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case standingsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.standings = msg.standings
		if m.cursor >= len(m.standings) {
			m.cursor = 0
		}

	case riderDetailLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.detail = msg.detail
		m.showingDetail = msg.err == nil
		if m.ready && m.detail != nil {
			m.viewport.SetContent(m.renderDetailContent())
			m.viewport.GotoTop()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.detail != nil {
			m.viewport.SetContent(m.renderDetailContent())
		}

	case tea.KeyMsg:
		if m.showingDetail {
			switch msg.String() {
			case "esc", "backspace":
				m.showingDetail = false
				m.detail = nil
				return m, nil
			case "r":
				if m.detail != nil {
					m.loading = true
					return m, m.loadDetail(m.detail.Rider.ID)
				}
			}
			// Fall through to viewport scrolling
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.standings)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.standings) {
				m.loading = true
				return m, m.loadDetail(m.standings[m.cursor].Rider.ID)
			}
		case "r":
			m.loading = true
			return m, m.loadStandings
		}
	}

	return m, nil
}

// View renders the riders screen
func (m RidersModel) View() string {
	if m.loading {
		return "\n  Loading riders..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.showingDetail {
		if !m.ready {
			return "\n  Initializing..."
		}
		footer := statusStyle.Render("  esc: back to roster  j/k or arrows: scroll  r: refresh")
		return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
	}

	return m.renderRoster()
}

func (m RidersModel) renderRoster() string {
	title := cardTitleStyle.Render("Riders")

	if len(m.standings) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, "\n  No riders in the roster yet.")
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-20s  %9s  %8s  %-14s  %s",
		"Name", "Readiness", "E (mi)", "Badge", "Strava"))

	rows := []string{header}
	for i, s := range m.standings {
		readiness := "-"
		eddington := "-"
		badge := ""
		if s.Score != nil {
			readiness = fmt.Sprintf("%d", s.Score.Total)
			eddington = fmt.Sprintf("%d", s.Score.EddingtonMiles)
		}
		if s.HasBadge {
			badge = s.Badge.Symbol + " " + s.Badge.Label
		}
		connected := "-"
		if s.Connected {
			connected = "linked"
		}

		line := fmt.Sprintf("%-20s  %9s  %8s  %-14s  %s",
			truncateName(s.Rider.Name, 20), readiness, eddington, badge, connected)

		if i == m.cursor {
			rows = append(rows, tableSelectedStyle.Render(line))
		} else {
			rows = append(rows, tableRowStyle.Render(line))
		}
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	help := statusStyle.Render("  enter: rider detail  j/k: move  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, title, table, help)
}

func (m RidersModel) renderDetailContent() string {
	d := m.detail
	if d == nil {
		return "No data"
	}

	var sections []string

	name := cardTitleStyle.Render(d.Rider.Name)
	if d.Rider.RusaID != "" {
		name += statusStyle.Render("  RUSA #" + d.Rider.RusaID)
	}
	sections = append(sections, name)

	sections = append(sections, m.renderReadinessSection())
	sections = append(sections, m.renderEddingtonSection())

	if len(d.GradedRides) > 0 {
		sections = append(sections, m.renderGradedRides())
	}

	if len(d.RecentActivities) > 0 {
		sections = append(sections, m.renderRiderActivities())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RidersModel) renderReadinessSection() string {
	title := cardTitleStyle.Render("Readiness")

	if m.detail.Score == nil {
		hint := "Not scored yet."
		if !m.detail.Connected {
			hint += " Connect this rider to Strava first."
		}
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, hint))
	}

	s := m.detail.Score
	lines := []string{
		RenderMetric("Total", fmt.Sprintf("%d / 100", s.Total)),
		RenderProgressBar(float64(s.Total)/100, 30),
		"",
		RenderMetric("Frequency", fmt.Sprintf("%d / 25", s.Frequency)),
		RenderMetric("Volume", fmt.Sprintf("%d / 35", s.Volume)),
		RenderMetric("Intensity", fmt.Sprintf("%d / 25", s.Intensity)),
		RenderMetric("Recency", fmt.Sprintf("%d / 15", s.Recency)),
		"",
		statusStyle.Render("Scored " + s.CalculatedAt.Format("Jan 02 15:04")),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m RidersModel) renderEddingtonSection() string {
	title := cardTitleStyle.Render("Eddington")

	d := m.detail
	var lines []string

	if d.HasBadge {
		lines = append(lines, RenderBadge(d.Badge.Label, d.Badge.Color, d.Badge.Symbol))
		lines = append(lines, "")
	}

	miles := d.MilesProgress
	lines = append(lines, RenderMetric("Miles E", fmt.Sprintf("%d", miles.Current)))
	lines = append(lines, fmt.Sprintf("  Next: %d (%d of %d days, %d to go)",
		miles.NextTarget, miles.DaysCompleted, miles.DaysNeeded, miles.DaysRemaining))
	lines = append(lines, "  "+RenderProgressBar(miles.Percent/100, 30))
	lines = append(lines, "")

	km := d.KmProgress
	lines = append(lines, RenderMetric("Km E", fmt.Sprintf("%d", km.Current)))
	lines = append(lines, fmt.Sprintf("  Next: %d (%d of %d days, %d to go)",
		km.NextTarget, km.DaysCompleted, km.DaysNeeded, km.DaysRemaining))
	lines = append(lines, "  "+RenderProgressBar(km.Percent/100, 30))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m RidersModel) renderGradedRides() string {
	title := cardTitleStyle.Render("Brevet Grades")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-24s  %8s  %5s  %s",
		"Date", "Ride", "Distance", "Score", "Grade"))

	rows := []string{header}
	for _, g := range m.detail.GradedRides {
		p := g.Participation
		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-24s  %7.0fkm  %5d  ",
			p.Date.Format("Jan 02"),
			truncateName(p.RideName, 24),
			p.DistanceKm,
			g.Grade.Score,
		)) + RenderGrade(g.Grade.Grade)
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func (m RidersModel) renderRiderActivities() string {
	title := cardTitleStyle.Render("Recent Activities")

	var lines []string
	for _, a := range m.detail.RecentActivities {
		lines = append(lines, fmt.Sprintf("%-10s  %-28s  %9s  %7s",
			a.StartDateLocal.Format("Jan 02"),
			truncateName(a.Name, 28),
			m.units.FormatDistance(a.Distance),
			formatDuration(a.MovingTime)))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")))
}
