package models

import "fmt"

// Query echoes a search request.
type Query struct {
	Q string `json:"q"`
	P int    `json:"p"`
}

// SearchResponse is a page of agent search results.
type SearchResponse struct {
	Results      []Agent `json:"results"`
	Query        Query   `json:"query"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	NumPerPage   int     `json:"num_per_page"`
}

// SuggestResponse is a bounded type-ahead result set.
type SuggestResponse struct {
	Query   Query   `json:"query"`
	Total   int     `json:"total"`
	Results []Agent `json:"results"`
}

// InteractionsPage is one page of an agent's interactions.
type InteractionsPage struct {
	Page                int                `json:"page"`
	Interactions        []InteractingAgent `json:"interactions"`
	InteractionsPerPage int                `json:"interactions_per_page"`
	Total               int                `json:"total"`
}

// Validate checks that the page does not exceed its declared size.
func (p *InteractionsPage) Validate() error {
	if p.InteractionsPerPage > 0 && len(p.Interactions) > p.InteractionsPerPage {
		return fmt.Errorf("interactions page %d holds %d entries, declared size %d",
			p.Page, len(p.Interactions), p.InteractionsPerPage)
	}
	return nil
}

// TotalPages derives the page count from the total and page size.
func (p *InteractionsPage) TotalPages() int {
	if p.InteractionsPerPage <= 0 {
		return 1
	}
	n := (p.Total + p.InteractionsPerPage - 1) / p.InteractionsPerPage
	if n < 1 {
		return 1
	}
	return n
}

// IndexMeta holds corpus-wide counters.
type IndexMeta struct {
	Version          string `json:"version"`
	InteractionCount int    `json:"interaction_count"`
	AgentCount       int    `json:"agent_count"`
	DataUpdatedOn    string `json:"data_updated_on"`
}

// Equal reports whether two snapshots carry the same counters.
func (m *IndexMeta) Equal(o *IndexMeta) bool {
	if m == nil || o == nil {
		return m == o
	}
	return *m == *o
}
