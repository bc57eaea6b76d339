// Package paging provides a fixed-size pagination window over an in-memory
// slice. The window is the last stage of the list pipeline: filtering and
// sorting happen upstream, and any change to the underlying items snaps the
// window back to the first page.
package paging

// DefaultPageSize is the number of reviews shown per page.
const DefaultPageSize = 3

// Window paginates a slice of items with a fixed page size. The zero value is
// not usable; construct with NewWindow. Window is not safe for concurrent use.
type Window[T any] struct {
	items    []T
	pageSize int
	page     int
}

// NewWindow returns a window over no items, positioned on page 1. A pageSize
// of zero or less falls back to DefaultPageSize.
func NewWindow[T any](pageSize int) *Window[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Window[T]{pageSize: pageSize, page: 1}
}

// SetItems replaces the underlying items and resets to page 1. Callers invoke
// this whenever the item list or its ordering changes, so a re-sort never
// leaves the window past the end.
func (w *Window[T]) SetItems(items []T) {
	w.items = items
	w.page = 1
}

// Page returns the current 1-based page number.
func (w *Window[T]) Page() int {
	return w.page
}

// PageSize returns the fixed page size.
func (w *Window[T]) PageSize() int {
	return w.pageSize
}

// TotalPages returns the number of pages needed to show every item. An empty
// window has zero pages but still reports page 1 as current.
func (w *Window[T]) TotalPages() int {
	if len(w.items) == 0 {
		return 0
	}
	return (len(w.items) + w.pageSize - 1) / w.pageSize
}

// Items returns the slice of items visible on the current page. The returned
// slice aliases the underlying items; callers must not mutate it.
func (w *Window[T]) Items() []T {
	start := (w.page - 1) * w.pageSize
	if start >= len(w.items) {
		return nil
	}
	end := start + w.pageSize
	if end > len(w.items) {
		end = len(w.items)
	}
	return w.items[start:end]
}

// Next advances one page, clamped to the last page. It reports whether the
// page changed.
func (w *Window[T]) Next() bool {
	if w.page >= w.TotalPages() {
		return false
	}
	w.page++
	return true
}

// Prev moves back one page, clamped to page 1. It reports whether the page
// changed.
func (w *Window[T]) Prev() bool {
	if w.page <= 1 {
		return false
	}
	w.page--
	return true
}

// SetPage jumps to the given page, clamped to the valid range.
func (w *Window[T]) SetPage(page int) {
	total := w.TotalPages()
	if page < 1 {
		page = 1
	}
	if total > 0 && page > total {
		page = total
	}
	w.page = page
}

// Len returns the total number of items across all pages.
func (w *Window[T]) Len() int {
	return len(w.items)
}
