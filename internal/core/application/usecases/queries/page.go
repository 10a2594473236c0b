package queries

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page is a clamped limit/offset window. Out-of-range values are clamped,
// never rejected: limit to [1, MaxPageLimit], offset to >= 0.
type Page struct {
	Limit  int
	Offset int
}

// NewPage applies the defaults for absent values and clamps the rest.
//
// Example:
//
//	limit, offset := 500, -5
//	NewPage(&limit, &offset) // Page{Limit: 100, Offset: 0}
//	NewPage(nil, nil)        // Page{Limit: 20, Offset: 0}
func NewPage(limit, offset *int) Page {
	p := Page{Limit: DefaultPageLimit}
	if limit != nil {
		p.Limit = min(max(*limit, 1), MaxPageLimit)
	}
	if offset != nil {
		p.Offset = max(*offset, 0)
	}
	return p
}

// PageMeta describes the returned window of a listing.
type PageMeta struct {
	Limit  int
	Offset int
	Count  int
	Total  int64
}
