// Package table is a client-side filter → sort → paginate pipeline over an
// in-memory collection, driven by a column manifest.
package table

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Column describes one visible field of T.
type Column[T any] struct {
	Key   string
	Label string
	// Value extracts the raw value used for searching and sorting.
	Value func(row T) any
	// Render formats the cell. Without it the raw value is printed, or "-"
	// when empty.
	Render func(value any, row T) string
	// NoSort marks the column as not sortable. Columns sort by default.
	NoSort bool
	// Width is a display hint for fixed-width renderers; 0 means auto.
	Width int
}

// Sortable reports whether selecting the column changes the order.
func (c Column[T]) Sortable() bool { return !c.NoSort && c.Value != nil }

// Cell renders the column for row.
func (c Column[T]) Cell(row T) string {
	var v any
	if c.Value != nil {
		v = normalize(c.Value(row))
	}
	if c.Render != nil {
		return c.Render(v, row)
	}
	if v == nil {
		return "-"
	}
	s := fmt.Sprint(v)
	if s == "" {
		return "-"
	}
	return s
}

// SortState names the active sort column. An empty Key means unsorted.
type SortState struct {
	Key       string
	Direction Direction
}

// Filter keeps the rows where at least one column's value, as case-folded
// text, contains the case-folded query. An empty query keeps every row.
// rows is never modified.
func Filter[T any](rows []T, columns []Column[T], query string) []T {
	if query == "" {
		return slices.Clone(rows)
	}
	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		for _, col := range columns {
			if col.Value == nil {
				continue
			}
			v := normalize(col.Value(row))
			if v == nil {
				continue
			}
			if strings.Contains(fold.String(fmt.Sprint(v)), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Sort returns rows ordered by the column named in s. Ties keep their input
// order. An empty or unknown key returns rows in their original order.
func Sort[T any](rows []T, columns []Column[T], s SortState) []T {
	out := slices.Clone(rows)
	if s.Key == "" {
		return out
	}
	i := slices.IndexFunc(columns, func(c Column[T]) bool { return c.Key == s.Key })
	if i < 0 || !columns[i].Sortable() {
		return out
	}
	value := columns[i].Value
	slices.SortStableFunc(out, func(a, b T) int {
		c := compareValues(normalize(value(a)), normalize(value(b)))
		if s.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}

// Paginate returns the 1-indexed page of size rows. Pages past the end are
// empty. size < 1 is treated as 1.
func Paginate[T any](rows []T, page, size int) []T {
	if size < 1 {
		size = 1
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+size, len(rows))
	return rows[start:end]
}

// TotalPages is ceil(n/size), zero for an empty collection.
func TotalPages(n, size int) int {
	if n <= 0 {
		return 0
	}
	if size < 1 {
		size = 1
	}
	return (n + size - 1) / size
}

// normalize dereferences pointers so *string and string search and sort alike.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

// compareValues orders numbers numerically, text lexically, false before true
// and times chronologically. nil sorts first; mixed kinds compare as text.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return compareBool(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func asFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
