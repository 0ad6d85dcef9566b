package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StudyType is the category of a source publication.
type StudyType string

// Study types.
const (
	StudyClinicalTrial StudyType = "clinical_trial"
	StudyCaseReport    StudyType = "case_report"
	StudySurvey        StudyType = "survey"
	StudyAnimal        StudyType = "animal_study"
	StudyInVitro       StudyType = "in_vitro"
	StudyUnknown       StudyType = "unknown"
)

var studyTypeLabels = map[StudyType]string{
	StudyClinicalTrial: "Clinical Trial",
	StudyCaseReport:    "Case Report",
	StudySurvey:        "Survey",
	StudyAnimal:        "Animal Study",
	StudyInVitro:       "In Vitro Study",
	StudyUnknown:       "",
}

// Label returns a display label, empty for unknown studies.
func (s StudyType) Label() string {
	return studyTypeLabels[s]
}

// ParseStudyType accepts both snake_case and display spellings.
func ParseStudyType(s string) StudyType {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch StudyType(norm) {
	case StudyClinicalTrial, StudyCaseReport, StudySurvey, StudyAnimal, StudyInVitro:
		return StudyType(norm)
	case "clinical_study", "clinical":
		return StudyClinicalTrial
	case "animal":
		return StudyAnimal
	}
	return StudyUnknown
}

// Flag is a boolean that also decodes from the string forms the backend
// emits for some datasets ("True", "false", "yes", "1").
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = false
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		*f = true
	case "", "false", "no", "n", "0":
		*f = false
	default:
		return fmt.Errorf("flag: unrecognised value %q", s)
	}
	return nil
}

// Paper is bibliographic metadata for a publication.
type Paper struct {
	PID           string `json:"pid"`
	Title         string `json:"title"`
	Year          *int   `json:"year,omitempty"`
	Venue         string `json:"venue,omitempty"`
	RawStudyType  string `json:"study_type,omitempty"`
	AnimalStudy   Flag   `json:"animal_study"`
	HumanStudy    Flag   `json:"human_study"`
	ClinicalStudy Flag   `json:"clinical_study"`
	Retraction    Flag   `json:"retraction"`
}

// StudyType resolves the categorical study type. An explicit study_type
// wins over the boolean flags.
func (p *Paper) StudyType() StudyType {
	if p.RawStudyType != "" {
		if st := ParseStudyType(p.RawStudyType); st != StudyUnknown {
			return st
		}
	}
	switch {
	case bool(p.ClinicalStudy):
		return StudyClinicalTrial
	case bool(p.AnimalStudy):
		return StudyAnimal
	}
	return StudyUnknown
}

// URL links to the paper on Semantic Scholar.
func (p *Paper) URL() string {
	return "https://semanticscholar.org/paper/" + p.PID
}

// SupportingSentenceSpan is a run of sentence text. A non-empty CUI marks
// a mention of that agent.
type SupportingSentenceSpan struct {
	Text string `json:"text"`
	CUI  string `json:"cui,omitempty"`
}

// SupportingSentence is one sentence of evidence split into spans.
type SupportingSentence struct {
	UID        int64                    `json:"uid"`
	Confidence *float64                 `json:"confidence,omitempty"`
	PaperID    string                   `json:"paper_id"`
	SentenceID int                      `json:"sentence_id"`
	Spans      []SupportingSentenceSpan `json:"spans"`
}

// Text reconstructs the sentence from its spans.
func (s *SupportingSentence) Text() string {
	var b strings.Builder
	for _, sp := range s.Spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// Mentions returns the CUIs mentioned in the sentence in span order.
func (s *SupportingSentence) Mentions() []string {
	var out []string
	for _, sp := range s.Spans {
		if sp.CUI != "" {
			out = append(out, sp.CUI)
		}
	}
	return out
}

// Evidence pairs a paper with the sentences drawn from it.
type Evidence struct {
	Paper     Paper                `json:"paper"`
	Sentences []SupportingSentence `json:"sentences"`
}

// InteractingAgent is one directed edge of the interaction graph.
type InteractingAgent struct {
	InteractionID string     `json:"interaction_id"`
	Slug          string     `json:"slug"`
	Agent         Agent      `json:"agent"`
	Evidence      []Evidence `json:"evidence"`
}

// Path returns the canonical interaction page path.
func (i *InteractingAgent) Path() string {
	return InteractionPath(i.Slug, i.InteractionID)
}

// InteractionDefinition is the full pairwise detail of one interaction.
type InteractionDefinition struct {
	InteractionID string     `json:"interaction_id"`
	Slug          string     `json:"slug"`
	Agents        [2]Agent   `json:"agents"`
	Evidence      []Evidence `json:"evidence"`
}

// Path returns the canonical interaction page path.
func (d *InteractionDefinition) Path() string {
	return InteractionPath(d.Slug, d.InteractionID)
}

// AgentsByCUI indexes both agents by identifier.
func (d *InteractionDefinition) AgentsByCUI() map[string]*Agent {
	return map[string]*Agent{
		d.Agents[0].CUI: &d.Agents[0],
		d.Agents[1].CUI: &d.Agents[1],
	}
}

// InteractionPath builds /i/{slug}/{interaction_id}.
func InteractionPath(slug, id string) string {
	return "/i/" + slug + "/" + id
}
