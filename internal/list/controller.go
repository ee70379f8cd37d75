// Package list owns listing state for one record collection: filter,
// loaded page, total count, and the bookkeeping that keeps slow responses
// and stale debounce timers from clobbering newer state.
package list

import "github.com/denifrahman/deni-crm/internal/domain"

// Controller holds paging, search, and date-range state for one record
// kind. Every fetch is tagged with a monotonically increasing sequence
// number; a completion that is not the latest issued is discarded, so a
// slow early response can never overwrite a newer one.
type Controller[T any] struct {
	filter  domain.Filter
	records []T
	count   int

	fetchSeq uint64 // latest issued fetch

	pendingSearch string
	searchGen     int // debounce generation; stale timers are ignored
}

// New creates a controller on page 1 with the given page size.
func New[T any](size int) *Controller[T] {
	return &Controller[T]{filter: domain.NewFilter(size)}
}

// Filter returns the current filter state.
func (c *Controller[T]) Filter() domain.Filter { return c.filter }

// Records returns the currently loaded page.
func (c *Controller[T]) Records() []T { return c.records }

// Count returns the backend's total record count for the filter.
func (c *Controller[T]) Count() int { return c.count }

// TotalPages derives the page count for the pagination control.
func (c *Controller[T]) TotalPages() int {
	return domain.TotalPages(c.count, c.filter.Size)
}

// BeginFetch registers a new outbound fetch and returns its sequence
// number, invalidating every fetch issued before it.
func (c *Controller[T]) BeginFetch() uint64 {
	c.fetchSeq++
	return c.fetchSeq
}

// IsLatest reports whether seq is the most recently issued fetch.
// Failure handling uses this so a superseded fetch that errors late
// cannot paint a stale error over a newer result.
func (c *Controller[T]) IsLatest(seq uint64) bool {
	return seq == c.fetchSeq
}

// Apply installs a fetch result if seq is still the latest issued.
// Stale results are discarded silently and prior state kept.
func (c *Controller[T]) Apply(seq uint64, records []T, count int) bool {
	if seq != c.fetchSeq {
		return false
	}
	c.records = records
	c.count = count
	return true
}

// Mutate replaces the loaded records in place, for optimistic updates
// that must show before any network confirmation.
func (c *Controller[T]) Mutate(fn func(records []T) []T) {
	c.records = fn(c.records)
}

// SetPage moves to a page without touching the rest of the filter.
func (c *Controller[T]) SetPage(p int) { c.filter = c.filter.WithPage(p) }

// SetDateRange applies a date-range filter, returning to page 1.
func (c *Controller[T]) SetDateRange(start, end string) {
	c.filter = c.filter.WithDateRange(start, end)
}

// SetSize applies a page length, returning to page 1.
func (c *Controller[T]) SetSize(size int) { c.filter = c.filter.WithSize(size) }

// TypeSearch records a keystroke in the search box and returns the new
// debounce generation. The caller schedules CommitSearch(gen) after the
// debounce window; a newer keystroke bumps the generation so the earlier
// timer expires without effect.
func (c *Controller[T]) TypeSearch(term string) int {
	c.pendingSearch = term
	c.searchGen++
	return c.searchGen
}

// CommitSearch folds the pending search term into the filter if gen is
// still the latest generation. Returns true when the filter changed and a
// refetch should be issued.
func (c *Controller[T]) CommitSearch(gen int) bool {
	if gen != c.searchGen {
		return false
	}
	if c.filter.Search == c.pendingSearch {
		return false
	}
	c.filter = c.filter.WithSearch(c.pendingSearch)
	return true
}
