package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/mbadmin/internal/browser"
	"github.com/naveenspark/mbadmin/internal/controller"
	"github.com/naveenspark/mbadmin/internal/store"
)

type view int

const (
	viewLogin view = iota
	viewDashboard
	viewUsers
	viewForm
)

// loggedOutMsg reports a finished logout.
type loggedOutMsg struct {
	err error
}

// Deps is everything the TUI drives.
type Deps struct {
	Auth     *controller.AuthController
	Users    *controller.UserController
	Session  *store.Session
	Prefs    *store.Preferences
	PageSize int
	// APIURL and MetricsURL are offered as links in the help overlay.
	APIURL     string
	MetricsURL string
}

// App is the root Bubbletea model.
type App struct {
	deps       Deps
	view       view
	login      loginModel
	dashboard  dashboardModel
	users      usersModel
	form       formModel
	helpOpen   bool
	helpCursor int
	width      int
	height     int
	frame      int // logo shimmer animation frame
	now        func() time.Time
}

// NewApp creates the TUI. It starts on the login screen unless the session
// is already authenticated.
func NewApp(d Deps) App {
	applyTheme(d.Prefs.State().Theme)
	a := App{
		deps:      d,
		view:      viewLogin,
		login:     newLoginModel(d.Auth),
		dashboard: newDashboardModel(d.Users),
		users:     newUsersModel(d.Users, d.Prefs.Notifier(), d.PageSize),
		now:       time.Now,
	}
	if d.Session.IsAuthenticated() {
		a.view = viewDashboard
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.initView())
}

func (a App) initView() tea.Cmd {
	switch a.view {
	case viewLogin:
		return a.login.Init()
	case viewDashboard:
		return a.dashboard.Init()
	case viewUsers:
		return a.users.Init()
	case viewForm:
		return a.form.Init()
	}
	return nil
}

func (a App) helpItems() []helpItem {
	var items []helpItem
	if a.deps.APIURL != "" {
		items = append(items, helpItem{"Backend API", a.deps.APIURL, a.deps.APIURL})
	}
	if a.deps.MetricsURL != "" {
		items = append(items, helpItem{"Metrics", a.deps.MetricsURL, a.deps.MetricsURL})
	}
	return items
}

func (a App) logout() tea.Cmd {
	auth := a.deps.Auth
	return func() tea.Msg {
		return loggedOutMsg{err: auth.Logout()}
	}
}

// toLogin resets the login screen and shows it.
func (a App) toLogin() (App, tea.Cmd) {
	a.view = viewLogin
	a.helpOpen = false
	a.login = newLoginModel(a.deps.Auth)
	a.login, _ = a.login.Update(a.bodySize())
	return a, a.login.Init()
}

func (a App) switchTo(v view) (App, tea.Cmd) {
	if a.view == v {
		return a, nil
	}
	a.view = v
	return a, a.initView()
}

func (a App) sidebarOpen() bool {
	return a.view != viewLogin && a.deps.Prefs.State().SidebarOpen
}

// bodySize is the space left for the active screen.
func (a App) bodySize() tea.WindowSizeMsg {
	// Chrome: header(2) + tabs(1) + help(1) = 4 lines
	w := a.width
	if a.sidebarOpen() {
		w -= sidebarStyle.GetWidth() + sidebarStyle.GetHorizontalFrameSize()
	}
	return tea.WindowSizeMsg{Width: max(w, 0), Height: max(a.height-4, 0)}
}

func (a App) resize() App {
	size := a.bodySize()
	a.login, _ = a.login.Update(size)
	a.dashboard, _ = a.dashboard.Update(size)
	a.users, _ = a.users.Update(size)
	if a.view == viewForm {
		a.form, _ = a.form.Update(size)
	}
	return a
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.resize(), nil

	case shimmerTickMsg:
		a.frame++
		// A 401 anywhere or a logout from another process ends the session.
		if a.view != viewLogin && !a.deps.Session.IsAuthenticated() {
			next, cmd := a.toLogin()
			return next, tea.Batch(shimmerTickCmd(), cmd)
		}
		return a, shimmerTickCmd()

	case loginResultMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if !msg.ok {
			return a, cmd
		}
		a.view = viewDashboard
		a.dashboard = newDashboardModel(a.deps.Users)
		a.dashboard, _ = a.dashboard.Update(a.bodySize())
		return a, tea.Batch(cmd, a.dashboard.Init())

	case loggedOutMsg:
		return a.toLogin()

	case dashboardLoadedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd

	case usersLoadedMsg, userDeletedMsg:
		var cmd tea.Cmd
		a.users, cmd = a.users.Update(msg)
		return a, cmd

	case openFormMsg:
		a.form = newFormModel(a.deps.Users, msg.user)
		a.form, _ = a.form.Update(a.bodySize())
		a.view = viewForm
		return a, a.form.Init()

	case formClosedMsg:
		a.view = viewUsers
		if msg.saved {
			a.users.loading = true
			return a, a.users.Init()
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Help overlay captures all keys when open
		if a.helpOpen {
			items := a.helpItems()
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(items)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				if a.helpCursor < len(items) && items[a.helpCursor].url != "" {
					browser.Open(items[a.helpCursor].url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		// Global keys (only when not editing)
		if !a.isEditing() {
			switch msg.String() {
			case "?":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q":
				return a, tea.Quit
			case "1":
				return a.switchTo(viewDashboard)
			case "2":
				return a.switchTo(viewUsers)
			case "t":
				applyTheme(a.deps.Prefs.ToggleTheme())
				return a, nil
			case "b":
				a.deps.Prefs.ToggleSidebar()
				return a.resize(), nil
			case "L":
				return a, a.logout()
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
		cmds = append(cmds, cmd)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
		cmds = append(cmds, cmd)
	case viewUsers:
		a.users, cmd = a.users.Update(msg)
		cmds = append(cmds, cmd)
	case viewForm:
		a.form, cmd = a.form.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin, viewForm:
		return true
	case viewUsers:
		return a.users.editing()
	}
	return false
}

func (a App) renderSidebar() string {
	st := a.deps.Session.State()
	var b strings.Builder
	nav := []struct {
		key, name string
		v         view
	}{
		{"1", "Dashboard", viewDashboard},
		{"2", "Users", viewUsers},
	}
	for _, n := range nav {
		if n.v == a.view || (n.v == viewUsers && a.view == viewForm) {
			fmt.Fprintf(&b, "%s %s\n", accentStyle.Render(n.key), navActiveStyle.Render(n.name))
		} else {
			fmt.Fprintf(&b, "%s %s\n", metaStyle.Render(n.key), navStyle.Render(n.name))
		}
	}
	b.WriteString("\n")
	if st.User != nil {
		b.WriteString(selectedStyle.Render(truncStr(st.User.DisplayName(), 17)) + "\n")
		b.WriteString(dimStyle.Render(truncStr(st.User.Email, 17)) + "\n")
	}
	if exp := formatExpiry(st.ExpiresAt, a.now()); exp != "" {
		b.WriteString(metaStyle.Render(exp) + "\n")
	}
	b.WriteString("\n" + metaStyle.Render(string(a.deps.Prefs.State().Theme)+" theme"))
	return sidebarStyle.Height(max(a.height-4, 1)).Render(b.String())
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)
	logoPad := max((a.width-lipgloss.Width(logo))/2, 0)
	header := strings.Repeat(" ", logoPad) + logo + "\n"

	st := a.deps.Session.State()
	if st.User != nil && a.view != viewLogin {
		line := metaStyle.Render("signed in as " + st.User.DisplayName())
		pad := max((a.width-lipgloss.Width(line))/2, 0)
		header += strings.Repeat(" ", pad) + line
	}

	// Tab bar: 1 Dashboard  2 Users
	var tabBar string
	if a.view != viewLogin {
		tabs := []struct {
			key, name string
			v         view
		}{
			{"1", "Dashboard", viewDashboard},
			{"2", "Users", viewUsers},
		}
		var parts []string
		for _, t := range tabs {
			if t.v == a.view || (t.v == viewUsers && a.view == viewForm) {
				parts = append(parts, accentStyle.Render(t.key)+" "+selectedStyle.Underline(true).Render(t.name))
			} else {
				parts = append(parts, metaStyle.Render(t.key)+" "+dimStyle.Render(t.name))
			}
		}
		tabBar = " " + strings.Join(parts, "    ")
	}

	var body, help string
	global := helpEntry("1-2", "tabs") + "  " + helpEntry("t", "theme") + "  " + helpEntry("b", "sidebar") + "  " + helpEntry("L", "logout") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("enter", "submit") + "  " + helpEntry("ctrl+c", "quit")
	case viewDashboard:
		body = a.dashboard.View()
		help = " " + helpEntry("r", "refresh") + "  " + global
	case viewUsers:
		body = a.users.View()
		help = a.users.helpView()
		if !a.users.editing() {
			help += "  " + helpEntry("?", "help")
		}
	case viewForm:
		body = a.form.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("shift+tab", "back") + "  " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
	}

	// Help overlay
	if a.helpOpen {
		body = helpView(a.helpItems(), a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	if a.sidebarOpen() && !a.helpOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, a.renderSidebar(), " "+body)
	}

	if toasts := renderToasts(a.deps.Prefs.Notifications(), a.width); toasts != "" {
		body = toasts + "\n" + body
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar, body, help)
}
