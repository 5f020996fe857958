package shared

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// Range returns the 1-based inclusive positions of the items shown on the
// current page. End is capped at Total; on an empty page End is Start-1.
func (p Pagination) Range(onPage int) (start, end int) {
	start = (p.Page-1)*p.PerPage + 1
	end = start + onPage - 1
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page exists.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}
