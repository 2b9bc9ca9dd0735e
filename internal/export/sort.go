package export

import (
	"fmt"
	"slices"
	"sort"
)

// SortKeys maps a sortable column name to a typed comparison for items of
// one dataset.
type SortKeys[T any] map[string]func(a, b T) int

// Columns returns the sortable column names, sorted.
func (k SortKeys[T]) Columns() []string {
	cols := make([]string, 0, len(k))
	for name := range k {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}

// Sort orders items in place by column. Equal items keep their order.
// An empty column leaves items untouched.
func (k SortKeys[T]) Sort(items []T, column string, desc bool) error {
	if column == "" {
		return nil
	}
	cmp, ok := k[column]
	if !ok {
		return fmt.Errorf("unknown sort column %q (sortable: %v)", column, k.Columns())
	}
	slices.SortStableFunc(items, func(a, b T) int {
		if desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return nil
}
