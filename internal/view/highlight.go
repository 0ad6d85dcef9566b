package view

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/starford/suppai/internal/models"
)

// Segment is a run of text, optionally marked as a match or a mention.
type Segment struct {
	Text  string
	Match bool
	// AgentType is set on sentence mentions.
	AgentType models.AgentType
}

// Highlight splits text around case-insensitive occurrences of the words
// in query. Overlapping matches are merged.
func Highlight(text, query string) []Segment {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || text == "" {
		return []Segment{{Text: text}}
	}
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		// Case folding changed byte offsets; fall back to no highlighting.
		return []Segment{{Text: text}}
	}

	type span struct{ start, end int }
	var spans []span
	for _, term := range terms {
		for off := 0; off < len(lower); {
			i := strings.Index(lower[off:], term)
			if i < 0 {
				break
			}
			spans = append(spans, span{off + i, off + i + len(term)})
			off += i + len(term)
		}
	}
	if len(spans) == 0 {
		return []Segment{{Text: text}}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			last.end = max(last.end, s.end)
			continue
		}
		merged = append(merged, s)
	}

	var out []Segment
	pos := 0
	for _, s := range merged {
		if s.start > pos {
			out = append(out, Segment{Text: text[pos:s.start]})
		}
		out = append(out, Segment{Text: text[s.start:s.end], Match: true})
		pos = s.end
	}
	if pos < len(text) {
		out = append(out, Segment{Text: text[pos:]})
	}
	return out
}

// ParseEmphasis converts <em>…</em> markers from backend match values into
// segments. Unbalanced markers are treated as text.
func ParseEmphasis(s string) []Segment {
	const open, close = "<em>", "</em>"
	var out []Segment
	for s != "" {
		i := strings.Index(s, open)
		if i < 0 {
			break
		}
		j := strings.Index(s[i+len(open):], close)
		if j < 0 {
			break
		}
		if i > 0 {
			out = append(out, Segment{Text: s[:i]})
		}
		out = append(out, Segment{Text: s[i+len(open) : i+len(open)+j], Match: true})
		s = s[i+len(open)+j+len(close):]
	}
	if s != "" {
		out = append(out, Segment{Text: s})
	}
	return out
}

// Match is a search hit on a field other than the agent's name.
type Match struct {
	Field    string
	Segments []Segment
}

var fieldLabels = map[string]string{
	"synonyms":   "Also known as",
	"tradenames": "Brand name",
	"definition": "Definition",
}

// Label is the display name of the matched field.
func (m Match) Label() string {
	if l, ok := fieldLabels[m.Field]; ok {
		return l
	}
	return m.Field
}

// AgentMatches lists an agent's search matches, skipping the preferred name,
// in a stable order. Values without emphasis markers are highlighted against
// query.
func AgentMatches(a models.Agent, query string) []Match {
	fields := make([]string, 0, len(a.Matches))
	for f := range a.Matches {
		if f == "preferred_name" {
			continue
		}
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]Match, 0, len(fields))
	for _, f := range fields {
		v := a.Matches[f]
		var segs []Segment
		if strings.Contains(v, "<em>") {
			segs = ParseEmphasis(v)
		} else {
			segs = Highlight(v, query)
		}
		out = append(out, Match{Field: f, Segments: segs})
	}
	return out
}

// SentenceSegments marks the spans of a sentence that mention known agents.
func SentenceSegments(s models.SupportingSentence, agents map[string]*models.Agent) []Segment {
	out := make([]Segment, 0, len(s.Spans))
	for _, sp := range s.Spans {
		seg := Segment{Text: sp.Text}
		if a, ok := agents[sp.CUI]; ok && sp.CUI != "" {
			seg.Match = true
			seg.AgentType = a.EntType
		}
		out = append(out, seg)
	}
	return out
}

// Truncate shortens s to at most n runes, adding an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}
