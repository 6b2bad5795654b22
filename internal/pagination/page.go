// Package pagination holds the page arithmetic shared by every listing.
package pagination

// DefaultWindow is how many page numbers a pager shows at once.
const DefaultWindow = 5

// Page is a 1-based page over Total items.
type Page struct {
	Current int
	PerPage int
	Total   int
}

// New returns a page clamped into range. perPage below 1 becomes 1.
func New(current, perPage, total int) Page {
	if perPage < 1 {
		perPage = 1
	}
	if total < 0 {
		total = 0
	}
	p := Page{Current: current, PerPage: perPage, Total: total}
	p.Current = p.clamp(current)
	return p
}

func (p Page) clamp(n int) int {
	if last := p.TotalPages(); n > last {
		n = last
	}
	if n < 1 {
		n = 1
	}
	return n
}

// TotalPages is ceil(Total/PerPage); zero when there are no items.
func (p Page) TotalPages() int {
	if p.PerPage < 1 || p.Total <= 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// Offset is the backend offset for the current page.
func (p Page) Offset() int {
	if p.Current < 1 {
		return 0
	}
	return (p.Current - 1) * p.PerPage
}

// StartIndex is the 0-based index of the first item shown.
func (p Page) StartIndex() int { return p.Offset() }

// EndIndex is one past the last item shown.
func (p Page) EndIndex() int {
	return min(p.StartIndex()+p.PerPage, p.Total)
}

func (p Page) HasPrev() bool { return p.Current > 1 }

func (p Page) HasNext() bool { return p.Current < p.TotalPages() }

// Prev and Next move one page, staying in range.
func (p Page) Prev() Page {
	p.Current = p.clamp(p.Current - 1)
	return p
}

func (p Page) Next() Page {
	p.Current = p.clamp(p.Current + 1)
	return p
}

// Goto jumps to page n, clamped.
func (p Page) Goto(n int) Page {
	p.Current = p.clamp(n)
	return p
}

// Window returns up to size page numbers around the current page: the first
// pages near the start, the last pages near the end, centred otherwise.
func (p Page) Window(size int) []int {
	total := p.TotalPages()
	if size < 1 || total == 0 {
		return nil
	}
	n := min(size, total)
	half := size / 2

	var first int
	switch {
	case total <= size, p.Current <= half+1:
		first = 1
	case p.Current >= total-half:
		first = total - size + 1
	default:
		first = p.Current - half
	}

	out := make([]int, n)
	for i := range out {
		out[i] = first + i
	}
	return out
}
