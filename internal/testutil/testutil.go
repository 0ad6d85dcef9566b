// Package testutil provides a fake supp.ai backend for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/suppai/internal/models"
)

// Fixture identifiers.
const (
	GinkgoCUI   = "C0330205"
	WarfarinCUI = "C0043031"
	AspirinCUI  = "C0004057"

	// BetaCaroteneCUI names an agent whose slug needs percent-escaping.
	BetaCaroteneCUI = "C0053396"

	GinkgoWarfarinID       = "C0043031-C0330205"
	GinkgoAspirinID        = "C0004057-C0330205"
	BetaCaroteneWarfarinID = "C0043031-C0053396"
)

// Backend is an httptest server that speaks the backend REST API.
type Backend struct {
	Server *httptest.Server

	mu           sync.Mutex
	agents       map[string]models.Agent
	interactions map[string][]models.InteractingAgent
	definitions  map[string]models.InteractionDefinition
	meta         models.IndexMeta
	perPage      int
	status       map[string]int
	calls        map[string]int
	lastQuery    map[string]url.Values
	envelope     bool
}

// NewBackend starts a fake backend seeded with fixtures and closes it on cleanup.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		perPage:   10,
		status:    make(map[string]int),
		calls:     make(map[string]int),
		lastQuery: make(map[string]url.Values),
	}
	b.seed()

	r := chi.NewRouter()
	r.Use(b.record)
	r.Get("/api/meta", b.handleMeta)
	r.Get("/api/agent/search", b.handleSearch)
	r.Get("/api/agent/suggest", b.handleSuggest)
	r.Get("/api/agent/{cui}", b.handleAgent)
	r.Get("/api/agent/{cui}/interactions", b.handleInteractions)
	r.Get("/api/interaction/{id}", b.handleInteraction)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the server origin.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Calls returns how many requests hit path.
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// LastQuery returns the query parameters of the last request to path.
func (b *Backend) LastQuery(path string) url.Values {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastQuery[path]
}

// FailWith makes every request to path answer with status.
func (b *Backend) FailWith(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[path] = status
}

// SetMeta replaces the index metadata.
func (b *Backend) SetMeta(m models.IndexMeta) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.meta = m
}

// SetPerPage changes the interactions page size.
func (b *Backend) SetPerPage(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.perPage = n
}

// UseEnvelope makes /api/agent/{cui} wrap the agent as {"agent": ...}.
func (b *Backend) UseEnvelope(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.envelope = on
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[r.URL.Path]++
		b.lastQuery[r.URL.Path] = r.URL.Query()
		status := b.status[r.URL.Path]
		b.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleMeta(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	meta := b.meta
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, meta)
}

func (b *Backend) handleAgent(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	agent, ok := b.agents[chi.URLParam(r, "cui")]
	envelope := b.envelope
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not Found"})
		return
	}
	if envelope {
		writeJSON(w, http.StatusOK, map[string]any{"agent": agent})
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (b *Backend) matching(q string) []models.Agent {
	q = strings.ToLower(strings.TrimSpace(q))
	var out []models.Agent
	for _, cui := range []string{GinkgoCUI, WarfarinCUI, AspirinCUI} {
		a := b.agents[cui]
		if strings.Contains(strings.ToLower(a.PreferredName), q) {
			a.Matches = map[string]string{"preferred_name": a.PreferredName}
			out = append(out, a)
			continue
		}
		for _, s := range a.Synonyms {
			if strings.Contains(strings.ToLower(s), q) {
				a.Matches = map[string]string{"synonyms": s}
				out = append(out, a)
				break
			}
		}
	}
	return out
}

func (b *Backend) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	p, _ := strconv.Atoi(r.URL.Query().Get("p"))
	b.mu.Lock()
	all := b.matching(q)
	b.mu.Unlock()

	const perPage = 2
	totalPages := (len(all) + perPage - 1) / perPage
	if p < 0 {
		p = 0
	}
	if totalPages > 0 && p >= totalPages {
		p = totalPages - 1
	}
	start := min(p*perPage, len(all))
	end := min(start+perPage, len(all))
	writeJSON(w, http.StatusOK, models.SearchResponse{
		Results:      append([]models.Agent{}, all[start:end]...),
		Query:        models.Query{Q: q, P: p},
		TotalPages:   totalPages,
		TotalResults: len(all),
		NumPerPage:   perPage,
	})
}

func (b *Backend) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	b.mu.Lock()
	all := b.matching(q)
	b.mu.Unlock()
	if len(all) > 5 {
		all = all[:5]
	}
	writeJSON(w, http.StatusOK, models.SuggestResponse{
		Query:   models.Query{Q: q},
		Total:   len(all),
		Results: append([]models.Agent{}, all...),
	})
}

func (b *Backend) handleInteractions(w http.ResponseWriter, r *http.Request) {
	cui := chi.URLParam(r, "cui")
	p, _ := strconv.Atoi(r.URL.Query().Get("p"))
	filter, hasFilter := r.URL.Query()["q"]

	b.mu.Lock()
	_, known := b.agents[cui]
	all := b.interactions[cui]
	perPage := b.perPage
	b.mu.Unlock()
	if !known {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not Found"})
		return
	}

	if hasFilter && strings.TrimSpace(filter[0]) != "" {
		needle := strings.ToLower(filter[0])
		var kept []models.InteractingAgent
		for _, ia := range all {
			if strings.Contains(strings.ToLower(ia.Agent.PreferredName), needle) {
				kept = append(kept, ia)
			}
		}
		all = kept
	}
	if p < 0 {
		p = 0
	}
	start := min(p*perPage, len(all))
	end := min(start+perPage, len(all))
	writeJSON(w, http.StatusOK, models.InteractionsPage{
		Page:                p,
		Interactions:        append([]models.InteractingAgent{}, all[start:end]...),
		InteractionsPerPage: perPage,
		Total:               len(all),
	})
}

func (b *Backend) handleInteraction(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	def, ok := b.definitions[chi.URLParam(r, "id")]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
