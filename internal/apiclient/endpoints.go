package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/starford/suppai/internal/apperr"
	"github.com/starford/suppai/internal/models"
)

// FetchIndexMeta loads corpus-wide counters from GET /api/meta.
func (c *Client) FetchIndexMeta(ctx context.Context) (*models.IndexMeta, error) {
	var meta models.IndexMeta
	if err := c.get(ctx, "/api/meta", nil, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// agentBody accepts both the bare agent and the {"agent": ...} envelope
// returned by later backend versions.
type agentBody struct {
	models.Agent
	Envelope *models.Agent `json:"agent"`
}

// FetchAgent loads a single agent from GET /api/agent/{cui}.
func (c *Client) FetchAgent(ctx context.Context, cui string) (*models.Agent, error) {
	if strings.TrimSpace(cui) == "" {
		return nil, apperr.Validation("cui", errors.New("must be set"))
	}
	var raw json.RawMessage
	if err := c.get(ctx, "/api/agent/"+pathSegment(cui), nil, &raw); err != nil {
		return nil, err
	}
	var body agentBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("GET /api/agent/%s: %w: %v", cui, apperr.ErrDecode, err)
	}
	if body.Envelope != nil {
		return body.Envelope, nil
	}
	return &body.Agent, nil
}

// SearchForAgents runs a full-text search; p is zero-indexed. A blank query
// yields an empty response without contacting the backend.
func (c *Client) SearchForAgents(ctx context.Context, q string, p int) (*models.SearchResponse, error) {
	q = strings.TrimSpace(q)
	if p < 0 {
		p = 0
	}
	if q == "" {
		return &models.SearchResponse{Results: []models.Agent{}, Query: models.Query{Q: q, P: p}}, nil
	}
	params := url.Values{
		"q": {q},
		"p": {strconv.Itoa(p)},
	}
	var resp models.SearchResponse
	if err := c.get(ctx, "/api/agent/search", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchSuggestions returns type-ahead matches for q. A blank query yields an
// empty response without contacting the backend.
func (c *Client) FetchSuggestions(ctx context.Context, q string) (*models.SuggestResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return &models.SuggestResponse{Results: []models.Agent{}}, nil
	}
	var resp models.SuggestResponse
	if err := c.get(ctx, "/api/agent/suggest", url.Values{"q": {q}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchInteractions loads page p (zero-indexed) of an agent's interactions.
// A nil filter sends no q parameter.
func (c *Client) FetchInteractions(ctx context.Context, cui string, p int, filter *string) (*models.InteractionsPage, error) {
	if strings.TrimSpace(cui) == "" {
		return nil, apperr.Validation("cui", errors.New("must be set"))
	}
	if p < 0 {
		p = 0
	}
	params := url.Values{"p": {strconv.Itoa(p)}}
	if filter != nil {
		params["q"] = []string{*filter}
	}
	var page models.InteractionsPage
	if err := c.get(ctx, "/api/agent/"+pathSegment(cui)+"/interactions", params, &page); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrDecode, err)
	}
	return &page, nil
}

// FetchInteraction loads both agents and the full evidence of an interaction.
func (c *Client) FetchInteraction(ctx context.Context, id string) (*models.InteractionDefinition, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("interaction_id", errors.New("must be set"))
	}
	var def models.InteractionDefinition
	if err := c.get(ctx, "/api/interaction/"+pathSegment(id), nil, &def); err != nil {
		return nil, err
	}
	return &def, nil
}
