package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/mbadmin/internal/browser"
	"github.com/naveenspark/mbadmin/internal/controller"
	"github.com/naveenspark/mbadmin/internal/notify"
	"github.com/naveenspark/mbadmin/internal/table"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

// usersLoadedMsg carries the full user collection.
type usersLoadedMsg struct {
	users []domain.User
	err   error
}

// userDeletedMsg reports a finished delete.
type userDeletedMsg struct {
	id  int
	err error
}

// openFormMsg asks the app to show the user form. A nil user means create.
type openFormMsg struct {
	user *domain.User
}

type usersModel struct {
	users   *controller.UserController
	notes   *notify.Queue
	engine  *table.Table[domain.User]
	grid    btable.Model
	search  textinput.Model
	pager   paginator.Model
	spinner spinner.Model
	help    help.Model
	keys    usersKeyMap
	page    table.Page[domain.User]

	focusCol  int
	searching bool
	loading   bool
	err       error

	// Delete confirmation; confirm is nil when no dialog is open.
	confirm  *huh.Form
	pending  *domain.User
	deleteOK *bool

	width  int
	height int
}

func newUsersModel(users *controller.UserController, notes *notify.Queue, pageSize int) usersModel {
	engine := table.New(controller.UserColumns(), pageSize)

	ti := textinput.New()
	ti.Placeholder = "Search users..."
	ti.Prompt = "/ "
	ti.CharLimit = maxInputLen

	grid := btable.New(btable.WithFocused(true), btable.WithHeight(engine.View().Size+1))
	s := btable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.border).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.text).
		Background(theme.surface).
		Bold(true)
	grid.SetStyles(s)

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.ActiveDot = accentStyle.Render("•")
	pager.InactiveDot = metaStyle.Render("•")

	m := usersModel{
		users:   users,
		notes:   notes,
		engine:  engine,
		grid:    grid,
		search:  ti,
		pager:   pager,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		help:    help.New(),
		keys:    usersKeys,
		loading: true,
	}
	m.syncGrid()
	return m
}

func (m usersModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m usersModel) load() tea.Cmd {
	users := m.users
	return func() tea.Msg {
		list, err := users.GetUsers(context.Background())
		return usersLoadedMsg{users: list, err: err}
	}
}

func (m usersModel) deleteUser(id int) tea.Cmd {
	users := m.users
	return func() tea.Msg {
		err := users.DeleteUser(context.Background(), id)
		return userDeletedMsg{id: id, err: err}
	}
}

func (m usersModel) Update(msg tea.Msg) (usersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// title, search, footer and help lines around the grid
		m.grid.SetHeight(max(msg.Height-6, 3))
		m.grid.SetWidth(msg.Width)
		return m, nil

	case usersLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.engine.SetRows(msg.users)
			m.syncGrid()
		}
		return m, nil

	case userDeletedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load())

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	if m.confirm != nil {
		return m.updateConfirm(msg)
	}
	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m usersModel) updateKeys(msg tea.KeyMsg) (usersModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Left):
		if m.focusCol > 0 {
			m.focusCol--
			m.syncGrid()
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.focusCol < len(m.engine.Columns())-1 {
			m.focusCol++
			m.syncGrid()
		}
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		col := m.engine.Columns()[m.focusCol]
		if m.engine.ToggleSort(col.Key) {
			m.syncGrid()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.engine.PrevPage() {
			m.syncGrid()
			m.grid.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if m.engine.NextPage() {
			m.syncGrid()
			m.grid.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return openFormMsg{} }

	case key.Matches(msg, m.keys.Edit):
		if u, ok := m.selected(); ok {
			return m, func() tea.Msg { return openFormMsg{user: &u} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if u, ok := m.selected(); ok {
			return m, m.startDelete(u)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if u, ok := m.selected(); ok {
			if err := clipboard.WriteAll(u.Email); err != nil {
				m.notes.Error("Copy failed", err.Error())
			} else {
				m.notes.Success("Copied", u.Email)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if u, ok := m.selected(); ok {
			if u.Avatar == nil || *u.Avatar == "" {
				m.notes.Info("No avatar", u.FullName()+" has no avatar")
			} else if err := browser.Open(*u.Avatar); err != nil {
				m.notes.Error("Open failed", err.Error())
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if !m.loading {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.load())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m usersModel) updateSearch(msg tea.KeyMsg) (usersModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.engine.SetQuery("")
		m.syncGrid()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.engine.Query() {
		m.engine.SetQuery(m.search.Value())
		m.syncGrid()
		m.grid.GotoTop()
	}
	return m, cmd
}

func (m *usersModel) startDelete(u domain.User) tea.Cmd {
	confirmed := false
	m.pending = &u
	m.deleteOK = &confirmed
	m.confirm = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s?", u.FullName())).
			Description("This cannot be undone.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(m.deleteOK),
	)).WithShowHelp(false)
	return m.confirm.Init()
}

func (m usersModel) updateConfirm(msg tea.Msg) (usersModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.closeConfirm()
		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
		switch f.State {
		case huh.StateCompleted:
			target, confirmed := *m.pending, *m.deleteOK
			m.closeConfirm()
			if confirmed {
				return m, m.deleteUser(target.ID)
			}
			return m, nil
		case huh.StateAborted:
			m.closeConfirm()
			return m, nil
		}
	}
	return m, cmd
}

func (m *usersModel) closeConfirm() {
	m.confirm = nil
	m.pending = nil
	m.deleteOK = nil
}

// selected returns the row under the grid cursor.
func (m usersModel) selected() (domain.User, bool) {
	i := m.grid.Cursor()
	if i < 0 || i >= len(m.page.Rows) {
		return domain.User{}, false
	}
	return m.page.Rows[i], true
}

// syncGrid re-derives the visible page and pushes it into the grid.
func (m *usersModel) syncGrid() {
	m.page = m.engine.View()
	cols := m.engine.Columns()
	sort := m.engine.SortState()

	gridCols := make([]btable.Column, len(cols))
	for i, c := range cols {
		title := c.Label
		if c.Key == sort.Key {
			if sort.Direction == table.Descending {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		if i == m.focusCol {
			title = "›" + title
		}
		gridCols[i] = btable.Column{Title: title, Width: c.Width}
	}

	rows := make([]btable.Row, len(m.page.Rows))
	for i, u := range m.page.Rows {
		row := make(btable.Row, len(cols))
		for j, c := range cols {
			row[j] = c.Cell(u)
		}
		rows[i] = row
	}

	// Clear rows first so no row renders against a stale header.
	m.grid.SetRows(nil)
	m.grid.SetColumns(gridCols)
	m.grid.SetRows(rows)
	if m.grid.Cursor() >= len(rows) {
		m.grid.SetCursor(max(len(rows)-1, 0))
	}

	m.pager.TotalPages = max(m.page.TotalPages, 1)
	m.pager.Page = max(m.page.Number-1, 0)
}

// editing reports whether keystrokes belong to a text field or dialog.
func (m usersModel) editing() bool {
	return m.searching || m.confirm != nil
}

func (m usersModel) helpView() string {
	if m.confirm != nil {
		return " " + helpEntry("←/→", "choose") + "  " + helpEntry("enter", "confirm") + "  " + helpEntry("esc", "cancel")
	}
	if m.searching {
		return " " + helpEntry("enter", "keep") + "  " + helpEntry("esc", "clear")
	}
	return " " + m.help.View(m.keys)
}

func (m usersModel) View() string {
	var b strings.Builder

	heading := titleStyle.UnsetMarginBottom().Render("Users")
	if m.loading {
		heading += " " + m.spinner.View()
	}
	b.WriteString(heading + "\n")

	switch {
	case m.searching || m.engine.Query() != "":
		b.WriteString(m.search.View())
	default:
		b.WriteString(metaStyle.Render("press / to search"))
	}
	b.WriteString("\n")

	if m.err != nil && m.engine.Len() == 0 {
		b.WriteString(errorStyle.Render("Could not load users. Press r to retry."))
		return b.String()
	}

	if m.page.TotalEntries == 0 && !m.loading {
		msg := "No users yet. Press n to create one."
		if m.engine.Query() != "" {
			msg = fmt.Sprintf("No users match %q.", m.engine.Query())
		}
		b.WriteString(dimStyle.Render(msg) + "\n")
	} else {
		b.WriteString(m.grid.View() + "\n")
	}

	footer := dimStyle.Render(m.page.Summary())
	right := m.pager.View() + "  " + metaStyle.Render(m.page.Indicator())
	gap := m.width - lipgloss.Width(footer) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	b.WriteString(footer + strings.Repeat(" ", gap) + right)

	if m.confirm != nil {
		b.WriteString("\n\n" + m.confirm.View())
	}
	return b.String()
}
