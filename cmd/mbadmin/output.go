package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/naveenspark/mbadmin/internal/notify"
	"github.com/naveenspark/mbadmin/internal/table"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

var (
	headerText = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ade80"))
	labelText  = lipgloss.NewStyle().Bold(true).Width(11)
	dimText    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
)

var signedOutHints = [...]string{
	"Nobody is signed in. Run `mbadmin login` to start a session.",
	"The dashboard is locked. `mbadmin login` opens it.",
	"No session on this machine yet. Sign in with `mbadmin login`.",
	"Your session has ended. Run `mbadmin login` to continue.",
}

func printSignedOut(w io.Writer) {
	hint := signedOutHints[rand.IntN(len(signedOutHints))]
	fmt.Fprintln(w, dimText.Italic(true).Render(hint))
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelText.Render(label)+" "+value)
}

var severityIcons = map[notify.Severity]string{
	notify.SeveritySuccess: "✔",
	notify.SeverityError:   "✖",
	notify.SeverityWarning: "!",
	notify.SeverityInfo:    "i",
}

// formatNotification renders a notification as one plain line.
func formatNotification(n notify.Notification) string {
	icon, ok := severityIcons[n.Severity]
	if !ok {
		icon = "i"
	}
	if n.Message == "" {
		return icon + " " + n.Title
	}
	return icon + " " + n.Title + ": " + n.Message
}

// renderUserTable draws rows with a bordered lipgloss table using each
// column's display renderer.
func renderUserTable(cols []table.Column[domain.User], rows []domain.User) string {
	if len(rows) == 0 {
		return dimText.Render("No users found.")
	}
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Label
	}
	cells := make([][]string, len(rows))
	for r, u := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = c.Cell(u)
		}
		cells[r] = line
	}
	return ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimText).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		}).
		String()
}

func printAnalytics(w io.Writer, a *domain.UserAnalytics) {
	fmt.Fprintln(w, headerText.Render("User analytics"))
	printField(w, "Total", strconv.Itoa(a.TotalUsers))
	printField(w, "Verified", strconv.Itoa(a.VerifiedUsers))
	printField(w, "Unverified", strconv.Itoa(a.UnverifiedUsers))
	printField(w, "New (7d)", strconv.Itoa(a.NewUsersLast7Days))
	printField(w, "New (30d)", strconv.Itoa(a.NewUsersLast30Days))
	for _, g := range a.GenderDistribution {
		printField(w, domain.GenderLabel(g.GenderID), strconv.Itoa(g.Count))
	}
}
