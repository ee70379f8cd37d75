package domain

// Filter holds listing query state: paging, free-text search, and an
// optional date range (YYYY-MM-DD). Mutations other than an explicit page
// change always return the user to the first page.
type Filter struct {
	Page      int
	Size      int
	Search    string
	StartDate string
	EndDate   string
}

// DefaultPageSize matches the backend's listing page length.
const DefaultPageSize = 10

// NewFilter returns a filter positioned on the first page.
func NewFilter(size int) Filter {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Filter{Page: 1, Size: size}
}

// WithPage returns the filter moved to page p. The only mutation that does
// not reset paging.
func (f Filter) WithPage(p int) Filter {
	if p < 1 {
		p = 1
	}
	f.Page = p
	return f
}

// WithSearch returns the filter with a new search term, back on page 1.
func (f Filter) WithSearch(term string) Filter {
	f.Search = term
	f.Page = 1
	return f
}

// WithDateRange returns the filter with a new date range, back on page 1.
func (f Filter) WithDateRange(start, end string) Filter {
	f.StartDate = start
	f.EndDate = end
	f.Page = 1
	return f
}

// WithSize returns the filter with a new page length, back on page 1.
func (f Filter) WithSize(size int) Filter {
	if size > 0 {
		f.Size = size
	}
	f.Page = 1
	return f
}

// TotalPages derives the page count from a total record count.
// A zero count yields zero pages.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}
