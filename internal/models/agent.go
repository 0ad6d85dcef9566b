// Package models defines the domain types returned by the supp.ai backend.
//
// Values are decoded from a single HTTP response and treated as immutable.
package models

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
)

// AgentType classifies an agent.
type AgentType string

// Agent types.
const (
	AgentTypeSupplement AgentType = "supplement"
	AgentTypeDrug       AgentType = "drug"
	AgentTypeOther      AgentType = "other"
)

// UnmarshalJSON maps unknown types to AgentTypeOther.
func (t *AgentType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch AgentType(strings.ToLower(s)) {
	case AgentTypeSupplement:
		*t = AgentTypeSupplement
	case AgentTypeDrug:
		*t = AgentTypeDrug
	default:
		*t = AgentTypeOther
	}
	return nil
}

// Agent is a supplement or drug.
type Agent struct {
	CUI                string            `json:"cui"`
	PreferredName      string            `json:"preferred_name"`
	Synonyms           []string          `json:"synonyms"`
	Tradenames         []string          `json:"tradenames"`
	Definition         string            `json:"definition"`
	Slug               string            `json:"slug"`
	EntType            AgentType         `json:"ent_type"`
	InteractsWithCount int               `json:"interacts_with_count"`
	Matches            map[string]string `json:"matches,omitempty"`
}

// Path returns the canonical page path for the agent.
func (a *Agent) Path() string {
	return "/a/" + a.Slug + "/" + a.CUI
}

// HasDefinition reports whether the agent carries a non-blank definition.
func (a *Agent) HasDefinition() bool {
	return strings.TrimSpace(a.Definition) != ""
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\p{M}]|_`)

// Slugify derives a url safe slug from a name the same way the backend does:
// every non-word rune (in the Unicode sense) and underscore becomes a dash,
// then the result is query-escaped.
func Slugify(name string) string {
	return url.QueryEscape(nonWord.ReplaceAllString(strings.ToLower(name), "-"))
}
