package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/mbadmin/internal/controller"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

// dashboardLoadedMsg carries analytics and the most recent sign-ups.
type dashboardLoadedMsg struct {
	analytics *domain.UserAnalytics
	recent    []domain.User
	err       error
}

type dashboardModel struct {
	users     *controller.UserController
	analytics *domain.UserAnalytics
	recent    []domain.User
	loading   bool
	err       error
	spinner   spinner.Model
	width     int
	height    int
}

func newDashboardModel(users *controller.UserController) dashboardModel {
	return dashboardModel{
		users:   users,
		loading: true,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m dashboardModel) load() tea.Cmd {
	users := m.users
	return func() tea.Msg {
		ctx := context.Background()
		analytics, err := users.GetUserAnalytics(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}
		recent, err := users.GetRecentUsers(ctx, controller.DefaultRecentLimit)
		if err != nil {
			return dashboardLoadedMsg{analytics: analytics, err: err}
		}
		return dashboardLoadedMsg{analytics: analytics, recent: recent}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.analytics != nil {
			m.analytics = msg.analytics
		}
		if msg.err == nil {
			m.recent = msg.recent
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "r" && !m.loading {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.load())
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard"))
	b.WriteString("\n")

	if m.loading && m.analytics == nil {
		b.WriteString(m.spinner.View() + " " + dimStyle.Render("Loading analytics..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Could not load dashboard data. Press r to retry."))
		b.WriteString("\n\n")
	}
	if m.analytics == nil {
		return b.String()
	}

	a := m.analytics
	cards := []string{
		statCard("Total Users", a.TotalUsers),
		statCard("Verified", a.VerifiedUsers),
		statCard("Unverified", a.UnverifiedUsers),
		statCard("New (7 days)", a.NewUsersLast7Days),
		statCard("New (30 days)", a.NewUsersLast30Days),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	left := renderGenderBars(a.GenderDistribution, a.TotalUsers)
	right := m.renderRecent()
	if m.width > 0 && m.width < 90 {
		b.WriteString(left + "\n" + right)
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(40).Render(left),
			right,
		))
	}
	if m.loading {
		b.WriteString("\n" + m.spinner.View() + " " + dimStyle.Render("Refreshing..."))
	}
	return b.String()
}

func statCard(label string, value int) string {
	return cardStyle.Render(
		dimStyle.Render(label) + "\n" + cardValueStyle.Render(fmt.Sprintf("%d", value)),
	)
}

// renderGenderBars draws one proportional bar per gender bucket.
func renderGenderBars(dist []domain.GenderCount, total int) string {
	const barWidth = 20
	var b strings.Builder
	b.WriteString(selectedStyle.Render("Gender distribution") + "\n")
	if len(dist) == 0 {
		b.WriteString(dimStyle.Render("No users yet") + "\n")
		return b.String()
	}
	for _, g := range dist {
		filled := 0
		if total > 0 {
			filled = g.Count * barWidth / total
		}
		if g.Count > 0 && filled == 0 {
			filled = 1
		}
		bar := genderStyle(g.GenderID).Render(strings.Repeat("█", filled)) +
			metaStyle.Render(strings.Repeat("░", barWidth-filled))
		fmt.Fprintf(&b, "%-8s %s %s\n", domain.GenderLabel(g.GenderID), bar, dimStyle.Render(fmt.Sprintf("%d", g.Count)))
	}
	return b.String()
}

func (m dashboardModel) renderRecent() string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("Recent users") + "\n")
	if len(m.recent) == 0 {
		b.WriteString(dimStyle.Render("No recent users") + "\n")
		return b.String()
	}
	for _, u := range m.recent {
		d := controller.FormatUserForDisplay(u)
		verified := metaStyle.Render("unverified")
		if u.IsVerified {
			verified = accentStyle.Render("verified")
		}
		fmt.Fprintf(&b, "%s  %s  %s  %s\n",
			normalStyle.Render(fmt.Sprintf("%-22s", truncStr(d.FullName, 22))),
			dimStyle.Render(fmt.Sprintf("%-28s", truncStr(u.Email, 28))),
			metaStyle.Render(d.FormattedCreatedDate),
			verified,
		)
	}
	return b.String()
}
