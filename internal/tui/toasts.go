package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/mbadmin/internal/notify"
)

// maxToasts is how many notifications are drawn at once; older ones wait.
const maxToasts = 3

// renderToasts draws the newest notifications, newest last, right-aligned.
func renderToasts(list []notify.Notification, width int) string {
	if len(list) == 0 {
		return ""
	}
	if len(list) > maxToasts {
		list = list[len(list)-maxToasts:]
	}
	boxWidth := min(max(width/3, 30), 50)

	var lines []string
	for _, n := range list {
		head := lipgloss.NewStyle().Bold(true).Foreground(theme.text).
			Render(severityIcon(n.Severity) + " " + truncStr(n.Title, boxWidth-4))
		body := head
		if n.Message != "" {
			body += "\n" + dimStyle.Render(truncStr(n.Message, boxWidth-2))
		}
		lines = append(lines, severityStyle(n.Severity).Width(boxWidth).Render(body))
	}
	stack := strings.Join(lines, "\n")
	if width <= 0 {
		return stack
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
}
