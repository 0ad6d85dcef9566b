// Package query maps search state to and from URL query strings.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Convention is how a listing numbers its pages in the URL.
type Convention int

const (
	// ZeroBased pages start at 0.
	ZeroBased Convention = iota
	// OneBased pages start at 1.
	OneBased
)

func (c Convention) first() int {
	if c == OneBased {
		return 1
	}
	return 0
}

// State is the UI's search state. Page is always zero-indexed.
type State struct {
	Text   string
	Page   int
	Filter string
}

// FilterPtr returns nil when no filter is set.
func (s State) FilterPtr() *string {
	if s.Filter == "" {
		return nil
	}
	f := s.Filter
	return &f
}

// Codec binds parameter names to a page convention.
type Codec struct {
	TextKey    string
	PageKey    string
	FilterKey  string
	Convention Convention
}

// Search is used by the home page results list. Its p parameter is
// zero-indexed, the same as the backend's.
var Search = Codec{TextKey: "q", PageKey: "p", Convention: ZeroBased}

// Interactions is used by the agent page. Its pager numbers pages from 1;
// q carries the search box text so the form stays filled in.
var Interactions = Codec{TextKey: "q", PageKey: "page", FilterKey: "filter", Convention: OneBased}

// Text collapses a parameter that may repeat into one normalised string.
func Text(values url.Values, key string) string {
	if key == "" {
		return ""
	}
	return normalize(strings.Join(values[key], " "))
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Page decodes a page parameter into a zero-indexed page. Missing,
// non-numeric or below-first values yield page 0.
func Page(values url.Values, key string, conv Convention) int {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	n -= conv.first()
	if n < 0 {
		return 0
	}
	return n
}

// Parse decodes state from query parameters.
func (c Codec) Parse(values url.Values) State {
	return State{
		Text:   Text(values, c.TextKey),
		Page:   Page(values, c.PageKey, c.Convention),
		Filter: Text(values, c.FilterKey),
	}
}

// Encode writes state as query parameters, omitting defaults.
func (c Codec) Encode(s State) url.Values {
	v := url.Values{}
	if t := normalize(s.Text); t != "" && c.TextKey != "" {
		v.Set(c.TextKey, t)
	}
	if s.Page > 0 && c.PageKey != "" {
		v.Set(c.PageKey, strconv.Itoa(s.Page+c.Convention.first()))
	}
	if f := normalize(s.Filter); f != "" && c.FilterKey != "" {
		v.Set(c.FilterKey, f)
	}
	return v
}

// String renders the encoded query, including the leading '?', or "" when empty.
func (c Codec) String(s State) string {
	v := c.Encode(s)
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// URL joins path with the encoded state.
func (c Codec) URL(path string, s State) string {
	return path + c.String(s)
}

// DisplayPage converts a zero-indexed page into the codec's numbering.
func (c Codec) DisplayPage(page int) int {
	return page + c.Convention.first()
}
