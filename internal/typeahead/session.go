// Package typeahead debounces suggestion lookups for one interactive
// search box and drops responses that no longer match what the user typed.
package typeahead

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/starford/suppai/internal/models"
)

// DefaultDelay is the debounce window.
const DefaultDelay = 100 * time.Millisecond

// Fetcher looks up suggestions for q.
type Fetcher func(ctx context.Context, q string) (*models.SuggestResponse, error)

// Result is a delivered suggestion set. Err is set when the lookup failed;
// Response is then empty.
type Result struct {
	Query    string
	Response *models.SuggestResponse
	Err      error
}

// Session tracks the current query of one search box. There is no
// cancellation of in-flight lookups: a response is delivered only if its
// query still equals the current query when it resolves.
type Session struct {
	fetch   Fetcher
	deliver func(Result)
	delay   time.Duration
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	current string
	timer   *time.Timer
	closed  bool
	wg      sync.WaitGroup

	// deliverMu is held from the staleness check through deliver.
	deliverMu sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithDelay sets the debounce window.
func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a session. deliver is called from timer goroutines, one
// call at a time. It must not block for long nor call back into the session.
func NewSession(ctx context.Context, fetch Fetcher, deliver func(Result), opts ...Option) *Session {
	s := &Session{
		fetch:   fetch,
		deliver: deliver,
		delay:   DefaultDelay,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s
}

// Update records q as the current query and restarts the debounce window.
// A blank query is answered at once with an empty result.
func (s *Session) Update(q string) {
	q = strings.Join(strings.Fields(q), " ")

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.current = q
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if q != "" {
		s.timer = time.AfterFunc(s.delay, func() { s.fire(q) })
	}
	s.mu.Unlock()

	if q == "" {
		s.deliverIfCurrent(Result{Response: emptyResponse("")})
	}
}

// Current returns the query the session is waiting on.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) fire(q string) {
	s.mu.Lock()
	if s.closed || q != s.current {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	resp, err := s.fetch(s.ctx, q)
	if err != nil {
		s.logger.Warn("typeahead: suggest failed", slog.String("query", q), slog.String("error", err.Error()))
		resp = emptyResponse(q)
	}

	if !s.deliverIfCurrent(Result{Query: q, Response: resp, Err: err}) {
		s.logger.Debug("typeahead: dropped stale response", slog.String("query", q))
	}
}

// deliverIfCurrent hands r to the callback unless a newer query has replaced
// r.Query. Deliveries are serialized so a result can never land after one for
// a later query.
func (s *Session) deliverIfCurrent(r Result) bool {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	stale := s.closed || r.Query != s.current
	s.mu.Unlock()
	if stale {
		return false
	}
	s.deliver(r)
	return true
}

// Close stops the pending timer and waits for in-flight lookups.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func emptyResponse(q string) *models.SuggestResponse {
	return &models.SuggestResponse{Query: models.Query{Q: q}, Results: []models.Agent{}}
}
