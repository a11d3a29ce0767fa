package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/mbadmin/internal/table"
)

func newTestUsersModel(t *testing.T) usersModel {
	t.Helper()
	env := newTestEnv(t)
	m := newUsersModel(env.deps.Users, env.deps.Prefs.Notifier(), 5)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = m.Update(usersLoadedMsg{users: sampleUsers(12)})
	return m
}

func TestUsersLoadedPaginates(t *testing.T) {
	m := newTestUsersModel(t)
	if m.loading {
		t.Error("loading should be false after usersLoadedMsg")
	}
	if m.page.TotalEntries != 12 || m.page.TotalPages != 3 {
		t.Errorf("entries=%d pages=%d, want 12 and 3", m.page.TotalEntries, m.page.TotalPages)
	}
	if got := len(m.grid.Rows()); got != 5 {
		t.Errorf("grid rows = %d, want 5", got)
	}
	if !strings.Contains(m.View(), "Showing 1 to 5 of 12 entries") {
		t.Error("footer should summarize the first page")
	}
}

func TestUsersPageKeys(t *testing.T) {
	m := newTestUsersModel(t)

	m, _ = m.Update(keyRunes("]"))
	m, _ = m.Update(keyRunes("]"))
	if m.page.Number != 3 {
		t.Fatalf("page = %d, want 3", m.page.Number)
	}
	if got := len(m.grid.Rows()); got != 2 {
		t.Errorf("last page rows = %d, want 2", got)
	}

	// Already on the last page.
	m, _ = m.Update(keyRunes("]"))
	if m.page.Number != 3 {
		t.Errorf("page = %d, want to stay on 3", m.page.Number)
	}

	m, _ = m.Update(keyRunes("["))
	if m.page.Number != 2 {
		t.Errorf("page = %d, want 2", m.page.Number)
	}
	if !strings.Contains(m.View(), "Page 2 of 3") {
		t.Error("indicator should read Page 2 of 3")
	}
}

func TestUsersSortToggle(t *testing.T) {
	m := newTestUsersModel(t)

	m, _ = m.Update(keyRunes("s"))
	if st := m.engine.SortState(); st.Key != "id" || st.Direction != table.Ascending {
		t.Fatalf("sort = %+v, want id asc", st)
	}
	m, _ = m.Update(keyRunes("s"))
	if st := m.engine.SortState(); st.Direction != table.Descending {
		t.Fatalf("sort = %+v, want desc", st)
	}
	if first := m.page.Rows[0].ID; first != 12 {
		t.Errorf("first row id = %d, want 12", first)
	}
	if !strings.Contains(m.grid.Columns()[0].Title, "▼") {
		t.Errorf("header %q should show the sort arrow", m.grid.Columns()[0].Title)
	}
}

func TestUsersColumnFocusMovesSort(t *testing.T) {
	m := newTestUsersModel(t)
	m, _ = m.Update(keyRunes("l"))
	m, _ = m.Update(keyRunes("s"))
	if st := m.engine.SortState(); st.Key != "name" {
		t.Errorf("sort key = %q, want name", st.Key)
	}

	// Focus never leaves the manifest.
	for i := 0; i < 20; i++ {
		m, _ = m.Update(keyRunes("h"))
	}
	if m.focusCol != 0 {
		t.Errorf("focusCol = %d, want 0", m.focusCol)
	}
}

func TestUsersSearchFiltersAndResetsPage(t *testing.T) {
	m := newTestUsersModel(t)
	m, _ = m.Update(keyRunes("]"))

	m, _ = m.Update(keyRunes("/"))
	if !m.searching || !m.editing() {
		t.Fatal("expected search mode after '/'")
	}
	m, _ = m.Update(keyRunes("grace"))
	if m.engine.Query() != "grace" {
		t.Fatalf("query = %q, want grace", m.engine.Query())
	}
	if m.page.Number != 1 {
		t.Errorf("page = %d, want 1 after a new query", m.page.Number)
	}
	if m.page.TotalEntries != 1 || m.page.Rows[0].FirstName != "Grace" {
		t.Errorf("entries = %d, want only Grace", m.page.TotalEntries)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.searching {
		t.Error("enter should leave search mode")
	}
	if m.engine.Query() != "grace" {
		t.Error("enter should keep the query")
	}

	m, _ = m.Update(keyRunes("/"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.engine.Query() != "" || m.page.TotalEntries != 12 {
		t.Errorf("esc should clear the query, got %q with %d entries", m.engine.Query(), m.page.TotalEntries)
	}
}

func TestUsersSearchNoMatches(t *testing.T) {
	m := newTestUsersModel(t)
	m, _ = m.Update(keyRunes("/"))
	m, _ = m.Update(keyRunes("zzz"))
	if !strings.Contains(m.View(), `No users match "zzz"`) {
		t.Error("empty result should be explained")
	}
	if !strings.Contains(m.View(), "Showing 0 to 0 of 0 entries") {
		t.Error("footer should show zero entries")
	}
}

func TestUsersEditOpensForm(t *testing.T) {
	m := newTestUsersModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := m.Update(keyRunes("e"))
	if cmd == nil {
		t.Fatal("expected a command from 'e'")
	}
	msg, ok := cmd().(openFormMsg)
	if !ok || msg.user == nil {
		t.Fatalf("msg = %#v, want openFormMsg with a user", msg)
	}
	if msg.user.ID != 2 {
		t.Errorf("user id = %d, want 2", msg.user.ID)
	}
}

func TestUsersNewOpensEmptyForm(t *testing.T) {
	m := newTestUsersModel(t)
	_, cmd := m.Update(keyRunes("n"))
	if cmd == nil {
		t.Fatal("expected a command from 'n'")
	}
	if msg, ok := cmd().(openFormMsg); !ok || msg.user != nil {
		t.Errorf("msg = %#v, want openFormMsg without a user", msg)
	}
}

func TestUsersDeleteConfirmCancel(t *testing.T) {
	m := newTestUsersModel(t)
	m, _ = m.Update(keyRunes("x"))
	if m.confirm == nil || m.pending == nil {
		t.Fatal("expected a confirmation dialog after 'x'")
	}
	if m.pending.ID != 1 {
		t.Errorf("pending id = %d, want 1", m.pending.ID)
	}
	if m.pending.FullName() != "Ada Tester" {
		t.Errorf("pending = %q, want Ada Tester", m.pending.FullName())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.confirm != nil || m.pending != nil {
		t.Error("esc should close the dialog")
	}
}

func TestUsersDeletedReloads(t *testing.T) {
	m := newTestUsersModel(t)
	m, cmd := m.Update(userDeletedMsg{id: 1})
	if !m.loading || cmd == nil {
		t.Error("a successful delete should reload the list")
	}
}

func TestUsersLoadErrorKeepsRows(t *testing.T) {
	m := newTestUsersModel(t)
	m, _ = m.Update(usersLoadedMsg{err: errBoom})
	if m.engine.Len() != 12 {
		t.Errorf("rows = %d, want the previous 12", m.engine.Len())
	}
}
