package table

import "fmt"

// Page is the visible slice of a table plus what pagination controls need.
type Page[T any] struct {
	Rows         []T
	Number       int
	Size         int
	TotalPages   int
	TotalEntries int
	// From and To are the 1-indexed positions of the first and last visible
	// row, both zero when the page is empty.
	From int
	To   int
}

// Summary reads "Showing 11 to 20 of 23 entries".
func (p Page[T]) Summary() string {
	return fmt.Sprintf("Showing %d to %d of %d entries", p.From, p.To, p.TotalEntries)
}

// Indicator reads "Page 2 of 3". An empty table shows "Page 1 of 0".
func (p Page[T]) Indicator() string {
	return fmt.Sprintf("Page %d of %d", p.Number, p.TotalPages)
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }

func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// Table keeps the query, sort and page selection for a collection and
// re-derives the visible page from scratch on every View.
type Table[T any] struct {
	columns []Column[T]
	rows    []T
	query   string
	sort    SortState
	page    int
	size    int
}

// DefaultPageSize is used when New receives a size below 1.
const DefaultPageSize = 10

// New creates a table over columns.
func New[T any](columns []Column[T], pageSize int) *Table[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Table[T]{columns: columns, page: 1, size: pageSize}
}

func (t *Table[T]) Columns() []Column[T] { return t.columns }

// SetRows replaces the collection. If the current page no longer exists the
// table moves to the last one.
func (t *Table[T]) SetRows(rows []T) {
	t.rows = rows
	if total := t.totalPages(); total > 0 && t.page > total {
		t.page = total
	}
}

func (t *Table[T]) Len() int { return len(t.rows) }

func (t *Table[T]) Query() string { return t.query }

// SetQuery changes the search text and returns to the first page.
func (t *Table[T]) SetQuery(q string) {
	if q == t.query {
		return
	}
	t.query = q
	t.page = 1
}

func (t *Table[T]) SortState() SortState { return t.sort }

// ToggleSort selects key ascending, or flips the direction when key is
// already active. Unsortable or unknown columns are ignored. It reports
// whether anything changed.
func (t *Table[T]) ToggleSort(key string) bool {
	col, ok := t.column(key)
	if !ok || !col.Sortable() {
		return false
	}
	if t.sort.Key == key {
		if t.sort.Direction == Ascending {
			t.sort.Direction = Descending
		} else {
			t.sort.Direction = Ascending
		}
		return true
	}
	t.sort = SortState{Key: key, Direction: Ascending}
	return true
}

// SetPage selects a 1-indexed page. Values below 1 select page 1.
func (t *Table[T]) SetPage(n int) {
	t.page = max(n, 1)
}

// NextPage advances unless already on the last page.
func (t *Table[T]) NextPage() bool {
	if t.page >= t.totalPages() {
		return false
	}
	t.page++
	return true
}

// PrevPage goes back unless already on the first page.
func (t *Table[T]) PrevPage() bool {
	if t.page <= 1 {
		return false
	}
	t.page--
	return true
}

// SetPageSize changes the page size and returns to the first page.
func (t *Table[T]) SetPageSize(n int) {
	if n < 1 {
		n = DefaultPageSize
	}
	t.size = n
	t.page = 1
}

// View runs Filter → Sort → Paginate over the current rows.
func (t *Table[T]) View() Page[T] {
	visible := Sort(Filter(t.rows, t.columns, t.query), t.columns, t.sort)
	rows := Paginate(visible, t.page, t.size)
	p := Page[T]{
		Rows:         rows,
		Number:       t.page,
		Size:         t.size,
		TotalPages:   TotalPages(len(visible), t.size),
		TotalEntries: len(visible),
	}
	if len(rows) > 0 {
		p.From = (t.page-1)*t.size + 1
		p.To = p.From + len(rows) - 1
	}
	return p
}

func (t *Table[T]) totalPages() int {
	return TotalPages(len(Filter(t.rows, t.columns, t.query)), t.size)
}

func (t *Table[T]) column(key string) (Column[T], bool) {
	for _, c := range t.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}
