package web

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router builds the chi router with all pages and endpoints mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// Health checks answer on any host.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", s.ready)

	r.Group(func(r chi.Router) {
		r.Use(CanonicalHost(s.site.CanonicalOrigin))
		r.Use(middleware.Compress(5))

		r.Get("/", s.Home)
		r.Get("/a/{cui}", s.AgentRedirect)
		r.Get("/a/{slug}/{cui}", s.Agent)
		r.Get("/i/{slug}/{interaction_id}", s.Interaction)
		r.Get("/docs/api", s.Docs)
		r.Get("/suggest", s.Suggest)

		static, _ := fs.Sub(staticFiles, "static")
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	})

	// Long-lived connections skip compression.
	r.Group(func(r chi.Router) {
		r.Use(CanonicalHost(s.site.CanonicalOrigin))
		r.Get("/ws/suggest", s.SuggestWS)
		if s.events != nil {
			r.Get("/events", s.events.ServeHTTP)
		}
		if s.proxy != nil {
			r.Mount("/api", s.proxy)
		}
	})

	r.NotFound(s.NotFound)
	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := s.backend.FetchIndexMeta(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
