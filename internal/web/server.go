// Package web serves the supp.ai pages, the type-ahead endpoints and the
// event stream on a chi router.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/starford/suppai/internal/models"
	"github.com/starford/suppai/internal/typeahead"
)

// Backend is the subset of the API client the pages use.
type Backend interface {
	FetchIndexMeta(ctx context.Context) (*models.IndexMeta, error)
	FetchAgent(ctx context.Context, cui string) (*models.Agent, error)
	SearchForAgents(ctx context.Context, q string, p int) (*models.SearchResponse, error)
	FetchSuggestions(ctx context.Context, q string) (*models.SuggestResponse, error)
	FetchInteractions(ctx context.Context, cui string, p int, filter *string) (*models.InteractionsPage, error)
	FetchInteraction(ctx context.Context, id string) (*models.InteractionDefinition, error)
}

// Site holds the values every page layout needs.
type Site struct {
	Title       string
	AnalyticsID string
	// CanonicalOrigin is the public scheme://host the site is served from.
	CanonicalOrigin string
}

// Server wires the backend, the renderer and the event stream together.
type Server struct {
	backend  Backend
	renderer *Renderer
	events   http.Handler
	proxy    http.Handler
	site     Site
	delay    time.Duration
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithEvents mounts h at GET /events.
func WithEvents(h http.Handler) Option {
	return func(s *Server) { s.events = h }
}

// WithProxy mounts h under /api.
func WithProxy(h http.Handler) Option {
	return func(s *Server) { s.proxy = h }
}

// WithTypeaheadDelay sets the websocket debounce window.
func WithTypeaheadDelay(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a Server. renderer must not be nil.
func NewServer(backend Backend, renderer *Renderer, site Site, opts ...Option) *Server {
	s := &Server{
		backend:  backend,
		renderer: renderer,
		site:     site,
		delay:    typeahead.DefaultDelay,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
