// Package view holds the pure helpers the page templates are built from.
package view

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/starford/suppai/internal/models"
)

// Pluralize returns word for a count of one and plural (or word+"s") otherwise.
func Pluralize(word string, n int, plural ...string) string {
	if n == 1 {
		return word
	}
	if len(plural) > 0 && plural[0] != "" {
		return plural[0]
	}
	return word + "s"
}

// FormatNumber renders n with thousands separators.
func FormatNumber(n int) string {
	return humanize.Comma(int64(n))
}

// PaperMeta joins the venue and year of a paper for display.
func PaperMeta(p models.Paper) string {
	var parts []string
	if p.Venue != "" {
		parts = append(parts, p.Venue)
	}
	if p.Year != nil {
		parts = append(parts, strconv.Itoa(*p.Year))
	}
	if label := p.StudyType().Label(); label != "" {
		parts = append(parts, label)
	}
	return strings.Join(parts, " • ")
}
