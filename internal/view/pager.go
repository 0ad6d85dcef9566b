package view

import "github.com/starford/suppai/internal/query"

// PageLink is one entry of a pagination control.
type PageLink struct {
	Label   int
	URL     string
	Current bool
	Gap     bool
}

// Pager is a rendered pagination control.
type Pager struct {
	Prev  string
	Next  string
	Links []PageLink
}

// Empty reports whether there is only one page.
func (p Pager) Empty() bool {
	return len(p.Links) <= 1
}

// NewPager builds links around the current page. Pages are zero-indexed in
// state and encoded with the codec's convention; labels always count from 1.
func NewPager(path string, codec query.Codec, state query.State, totalPages int) Pager {
	if totalPages <= 1 {
		return Pager{}
	}
	cur := min(max(state.Page, 0), totalPages-1)
	at := func(page int) string {
		s := state
		s.Page = page
		return codec.URL(path, s)
	}

	const window = 2
	var p Pager
	if cur > 0 {
		p.Prev = at(cur - 1)
	}
	if cur < totalPages-1 {
		p.Next = at(cur + 1)
	}
	last := -1
	for i := range totalPages {
		if i != 0 && i != totalPages-1 && (i < cur-window || i > cur+window) {
			continue
		}
		if last >= 0 && i-last > 1 {
			p.Links = append(p.Links, PageLink{Gap: true})
		}
		p.Links = append(p.Links, PageLink{Label: i + 1, URL: at(i), Current: i == cur})
		last = i
	}
	return p
}
