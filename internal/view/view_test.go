package view

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/suppai/internal/models"
	"github.com/starford/suppai/internal/query"
)

func TestPluralize(t *testing.T) {
	if Pluralize("Interaction", 1) != "Interaction" {
		t.Error("singular")
	}
	if Pluralize("Interaction", 0) != "Interactions" {
		t.Error("zero is plural")
	}
	if got := Pluralize("supplement and/or drug", 2, "supplements and/or drugs"); got != "supplements and/or drugs" {
		t.Errorf("explicit plural = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(59096); got != "59,096" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatNumber(12); got != "12" {
		t.Errorf("FormatNumber = %q", got)
	}
}

func TestPaperMeta(t *testing.T) {
	year := 2014
	p := models.Paper{Venue: "Blood", Year: &year, ClinicalStudy: true}
	if got := PaperMeta(p); got != "Blood • 2014 • Clinical Trial" {
		t.Errorf("PaperMeta = %q", got)
	}
	if got := PaperMeta(models.Paper{}); got != "" {
		t.Errorf("empty paper meta = %q", got)
	}
}

func TestTruncateList(t *testing.T) {
	items := []string{
		strings.Repeat("a", 30),
		strings.Repeat("b", 30),
		strings.Repeat("c", 30),
		"d",
	}
	got := TruncateList(items, MaxListChars, false)
	if len(got.Visible) != 2 || got.Hidden != 2 || !got.HasMore() {
		t.Errorf("collapsed = %+v", got)
	}
	exp := TruncateList(items, MaxListChars, true)
	if len(exp.Visible) != 4 || !exp.Expanded || !exp.HasMore() {
		t.Errorf("expanded = %+v", exp)
	}

	short := TruncateList([]string{"Ginkoba", "Ginkgold"}, MaxListChars, false)
	if short.HasMore() || len(short.Visible) != 2 {
		t.Errorf("short list = %+v", short)
	}
	long := TruncateList([]string{strings.Repeat("x", 100)}, MaxListChars, false)
	if len(long.Visible) != 1 {
		t.Error("first item is always visible")
	}
	if TruncateList(nil, MaxListChars, false).HasMore() {
		t.Error("empty list has nothing more")
	}
}

func TestEvidenceWindowMonotonic(t *testing.T) {
	w := NewEvidenceWindow(12, 0, EvidencePageSize, 0)
	if w.Shown != 3 || !w.HasMore() {
		t.Fatalf("initial window = %+v", w)
	}
	seen := w.Shown
	for w.HasMore() {
		next := NewEvidenceWindow(12, w.NextShown(), EvidencePageSize, 0)
		if next.Shown <= seen {
			t.Fatalf("window shrank or stalled: %d -> %d", seen, next.Shown)
		}
		seen = next.Shown
		w = next
	}
	if w.Shown != 12 || w.Remaining != 0 {
		t.Errorf("final window = %+v", w)
	}
}

func TestEvidenceWindowCap(t *testing.T) {
	w := NewEvidenceWindow(5, 0, EvidencePageSize, 1)
	if w.Shown != 1 || w.HasMore() || !w.Capped {
		t.Errorf("capped window = %+v", w)
	}
	items := []int{1, 2, 3, 4, 5}
	if got := Slice(items, w); len(got) != 1 {
		t.Errorf("Slice = %v", got)
	}
	small := NewEvidenceWindow(2, 0, EvidencePageSize, 0)
	if small.Shown != 2 || small.HasMore() {
		t.Errorf("small window = %+v", small)
	}
}

func TestHighlight(t *testing.T) {
	got := Highlight("Ginkgo biloba whole", "BILOBA gink")
	want := []Segment{
		{Text: "Gink", Match: true},
		{Text: "go "},
		{Text: "biloba", Match: true},
		{Text: " whole"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Highlight mismatch (-want +got):\n%s", diff)
	}
	plain := Highlight("Warfarin", "")
	if len(plain) != 1 || plain[0].Match {
		t.Errorf("empty query = %+v", plain)
	}
	overlap := Highlight("aspirin", "asp spir")
	if len(overlap) != 2 || overlap[0].Text != "aspir" {
		t.Errorf("overlap = %+v", overlap)
	}
}

func TestParseEmphasis(t *testing.T) {
	got := ParseEmphasis("Maidenhair <em>tree</em> leaf <em>ext")
	want := []Segment{
		{Text: "Maidenhair "},
		{Text: "tree", Match: true},
		{Text: " leaf <em>ext"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseEmphasis mismatch (-want +got):\n%s", diff)
	}
}

func TestAgentMatches(t *testing.T) {
	a := models.Agent{Matches: map[string]string{
		"preferred_name": "Ginkgo",
		"synonyms":       "Maidenhair tree",
		"definition":     "a <em>tree</em>",
	}}
	got := AgentMatches(a, "maiden")
	if len(got) != 2 || got[0].Field != "definition" || got[1].Field != "synonyms" {
		t.Fatalf("matches = %+v", got)
	}
	if got[1].Label() != "Also known as" || !got[1].Segments[0].Match {
		t.Errorf("synonym match = %+v", got[1])
	}
}

func TestSentenceSegments(t *testing.T) {
	drug := &models.Agent{CUI: "C2", EntType: models.AgentTypeDrug}
	s := models.SupportingSentence{Spans: []models.SupportingSentenceSpan{
		{Text: "Use of "}, {Text: "X", CUI: "C9"}, {Text: " with "}, {Text: "warfarin", CUI: "C2"},
	}}
	segs := SentenceSegments(s, map[string]*models.Agent{"C2": drug})
	if segs[1].Match {
		t.Error("unknown agent mention should not be marked")
	}
	if !segs[3].Match || segs[3].AgentType != models.AgentTypeDrug {
		t.Errorf("mention = %+v", segs[3])
	}
	var b strings.Builder
	for _, sg := range segs {
		b.WriteString(sg.Text)
	}
	if b.String() != s.Text() {
		t.Errorf("segments do not reconstruct the sentence: %q", b.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abc", 3); got != "abc" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestNewPager(t *testing.T) {
	p := NewPager("/a/ginkgo/C1", query.Interactions, query.State{Page: 5, Filter: "w"}, 10)
	if p.Prev != "/a/ginkgo/C1?filter=w&page=5" {
		t.Errorf("prev = %q", p.Prev)
	}
	if p.Next != "/a/ginkgo/C1?filter=w&page=7" {
		t.Errorf("next = %q", p.Next)
	}
	var labels []int
	gaps := 0
	for _, l := range p.Links {
		if l.Gap {
			gaps++
			continue
		}
		labels = append(labels, l.Label)
		if l.Current && l.Label != 6 {
			t.Errorf("current label = %d, want 6", l.Label)
		}
	}
	if diff := cmp.Diff([]int{1, 4, 5, 6, 7, 8, 10}, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if gaps != 2 {
		t.Errorf("gaps = %d, want 2", gaps)
	}

	first := NewPager("/", query.Search, query.State{Text: "g"}, 3)
	if first.Prev != "" || first.Links[0].URL != "/?q=g" || first.Links[1].URL != "/?p=1&q=g" {
		t.Errorf("search pager = %+v", first)
	}
	if !NewPager("/", query.Search, query.State{}, 1).Empty() {
		t.Error("single page pager should be empty")
	}
}
