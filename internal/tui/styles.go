package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/mbadmin/internal/notify"
	"github.com/naveenspark/mbadmin/internal/store"
)

// Shimmer animation for the header logo. The tick also drives re-renders so
// expiring toasts disappear without a keypress.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "MB ADMIN" as a wave running from the palette's
// deep logo color to its bright one.
func renderShimmerLogo(frame int) string {
	const text = "MBADMIN"
	n := len(text)
	deep, bright := theme.logoDeep, theme.logoBright

	var out strings.Builder
	t := float64(frame)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)
		b = b*0.75 + math.Sin(t*0.035)*0.12 + 0.18
		b = math.Max(0.05, math.Min(1.0, b))

		r := clampByte(float64(deep[0]) + b*float64(bright[0]-deep[0]))
		g := clampByte(float64(deep[1]) + b*float64(bright[1]-deep[1]))
		bl := clampByte(float64(deep[2]) + b*float64(bright[2]-deep[2]))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))
		if i == 1 {
			out.WriteString("   ")
		} else if i < n-1 {
			out.WriteString(" ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

// palette is one color theme.
type palette struct {
	text, dim, meta, accent lipgloss.Color
	border, surface         lipgloss.Color
	success, danger         lipgloss.Color
	warning, info           lipgloss.Color
	genders                 []lipgloss.Color
	logoDeep, logoBright    [3]int
}

var (
	darkPalette = palette{
		text:       lipgloss.Color("#e4e4ec"),
		dim:        lipgloss.Color("#8890a0"),
		meta:       lipgloss.Color("#505868"),
		accent:     lipgloss.Color("#34d474"),
		border:     lipgloss.Color("#2a2a3a"),
		surface:    lipgloss.Color("#111118"),
		success:    lipgloss.Color("#4ade80"),
		danger:     lipgloss.Color("#e06060"),
		warning:    lipgloss.Color("#f0944a"),
		info:       lipgloss.Color("#60a0e0"),
		genders:    []lipgloss.Color{"#60a0e0", "#c084e0", "#d4a844", "#3ecce4"},
		logoDeep:   [3]int{26, 58, 36},
		logoBright: [3]int{74, 222, 128},
	}

	lightPalette = palette{
		text:       lipgloss.Color("#1f2330"),
		dim:        lipgloss.Color("#5a6272"),
		meta:       lipgloss.Color("#8a92a2"),
		accent:     lipgloss.Color("#15803d"),
		border:     lipgloss.Color("#d0d4dc"),
		surface:    lipgloss.Color("#f4f5f8"),
		success:    lipgloss.Color("#15803d"),
		danger:     lipgloss.Color("#b91c1c"),
		warning:    lipgloss.Color("#c2410c"),
		info:       lipgloss.Color("#1d4ed8"),
		genders:    []lipgloss.Color{"#1d4ed8", "#9333ea", "#a16207", "#0e7490"},
		logoDeep:   [3]int{20, 83, 45},
		logoBright: [3]int{34, 197, 94},
	}
)

// theme is the active palette; styles below are derived from it by applyTheme.
var theme = lightPalette

var (
	dimStyle       lipgloss.Style
	selectedStyle  lipgloss.Style
	normalStyle    lipgloss.Style
	metaStyle      lipgloss.Style
	accentStyle    lipgloss.Style
	errorStyle     lipgloss.Style
	titleStyle     lipgloss.Style
	cardStyle      lipgloss.Style
	cardValueStyle lipgloss.Style
	sidebarStyle   lipgloss.Style
	navActiveStyle lipgloss.Style
	navStyle       lipgloss.Style
	toastStyle     lipgloss.Style
	helpKeyStyle   lipgloss.Style
	helpLabelStyle lipgloss.Style
)

func init() { applyTheme(store.ThemeLight) }

// applyTheme switches palettes and rebuilds every derived style.
func applyTheme(t store.Theme) {
	theme = lightPalette
	if t == store.ThemeDark {
		theme = darkPalette
	}

	dimStyle = lipgloss.NewStyle().Foreground(theme.dim)
	selectedStyle = lipgloss.NewStyle().Foreground(theme.text).Bold(true)
	normalStyle = lipgloss.NewStyle().Foreground(theme.text)
	metaStyle = lipgloss.NewStyle().Foreground(theme.meta)
	accentStyle = lipgloss.NewStyle().Foreground(theme.accent)
	errorStyle = lipgloss.NewStyle().Foreground(theme.danger)
	titleStyle = lipgloss.NewStyle().Foreground(theme.text).Bold(true).MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.border).
		Padding(0, 2).
		MarginRight(1)
	cardValueStyle = lipgloss.NewStyle().Foreground(theme.accent).Bold(true)

	sidebarStyle = lipgloss.NewStyle().
		Width(18).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(theme.border).
		PaddingRight(1)
	navActiveStyle = lipgloss.NewStyle().Foreground(theme.accent).Bold(true)
	navStyle = lipgloss.NewStyle().Foreground(theme.dim)

	toastStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		PaddingLeft(1)

	helpKeyStyle = lipgloss.NewStyle().Foreground(theme.dim)
	helpLabelStyle = lipgloss.NewStyle().Foreground(theme.meta)
}

func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// severityStyle colors a toast by severity.
func severityStyle(s notify.Severity) lipgloss.Style {
	switch s {
	case notify.SeveritySuccess:
		return toastStyle.BorderForeground(theme.success)
	case notify.SeverityError:
		return toastStyle.BorderForeground(theme.danger)
	case notify.SeverityWarning:
		return toastStyle.BorderForeground(theme.warning)
	default:
		return toastStyle.BorderForeground(theme.info)
	}
}

func severityIcon(s notify.Severity) string {
	switch s {
	case notify.SeveritySuccess:
		return "✔"
	case notify.SeverityError:
		return "✖"
	case notify.SeverityWarning:
		return "!"
	default:
		return "i"
	}
}

// genderStyle picks a stable color per gender id.
func genderStyle(id int) lipgloss.Style {
	if id < 0 {
		id = -id
	}
	return lipgloss.NewStyle().Foreground(theme.genders[id%len(theme.genders)])
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

// helpView renders the help overlay: CLI commands, then links with a cursor.
func helpView(items []helpItem, cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(theme.accent).
		Bold(true).
		Render("M B   A D M I N")

	cmdStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.text)
	sectionStyle := lipgloss.NewStyle().Foreground(theme.dim).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"mbadmin", "Open the dashboard (interactive TUI)"},
		{"mbadmin login", "Sign in and store the session"},
		{"mbadmin logout", "Clear the stored session"},
		{"mbadmin users list", "Print users as a table"},
		{"mbadmin stats", "Print user analytics"},
		{"mbadmin version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), dimStyle.Render(c.desc))
	}

	if len(items) > 0 {
		fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	}
	for i, item := range items {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = navActiveStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, metaStyle.Italic(true).Render(item.desc))
	}
	return b.String()
}
