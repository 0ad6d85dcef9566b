package view

// Default evidence page sizes.
const (
	EvidencePageSize            = 3
	InteractionEvidencePageSize = 10
)

// EvidenceWindow describes how much of an evidence list is shown.
type EvidenceWindow struct {
	Shown     int
	Total     int
	PageSize  int
	Remaining int
	// Capped is set when a hard maximum hides the rest and no "show more"
	// is offered (the list links to the interaction page instead).
	Capped bool
}

// NewEvidenceWindow clamps shown into [min(pageSize,total), total] and
// applies an optional hard max (0 means none).
func NewEvidenceWindow(total, shown, pageSize, max int) EvidenceWindow {
	if pageSize <= 0 {
		pageSize = EvidencePageSize
	}
	if shown < pageSize {
		shown = pageSize
	}
	w := EvidenceWindow{Total: total, PageSize: pageSize}
	if max > 0 && shown > max {
		shown = max
		w.Capped = total > max
	}
	if shown > total {
		shown = total
	}
	w.Shown = shown
	w.Remaining = total - shown
	return w
}

// HasMore reports whether a "show more" control applies.
func (w EvidenceWindow) HasMore() bool {
	return w.Remaining > 0 && !w.Capped
}

// NextShown is the count after one more "show more"; it never decreases.
func (w EvidenceWindow) NextShown() int {
	return w.Shown + min(w.PageSize, w.Remaining)
}

// Slice returns the visible prefix of items.
func Slice[T any](items []T, w EvidenceWindow) []T {
	if w.Shown >= len(items) {
		return items
	}
	return items[:w.Shown]
}
