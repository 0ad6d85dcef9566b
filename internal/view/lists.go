package view

// MaxListChars bounds the collapsed synonym and tradename lists.
const MaxListChars = 77

// Truncated is a list cut down for display.
type Truncated struct {
	Visible  []string
	Hidden   int
	Expanded bool
}

// HasMore reports whether a toggle should be offered.
func (t Truncated) HasMore() bool {
	return t.Hidden > 0 || t.Expanded
}

// TruncateList keeps the first item, then adds items while the running
// character total stays below maxChars. When expanded all items are visible.
func TruncateList(items []string, maxChars int, expanded bool) Truncated {
	if len(items) == 0 {
		return Truncated{}
	}
	n := 1
	chars := len([]rune(items[0]))
	for _, item := range items[1:] {
		chars += len([]rune(item))
		if chars >= maxChars {
			break
		}
		n++
	}
	if expanded {
		return Truncated{Visible: items, Expanded: n < len(items)}
	}
	return Truncated{Visible: items[:n], Hidden: len(items) - n}
}
