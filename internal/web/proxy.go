package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// NewAPIProxy forwards /api requests to the backend origin unchanged, so
// browser code can use same-origin paths.
func NewAPIProxy(origin string, logger *slog.Logger) (http.Handler, error) {
	target, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse api origin: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("api origin %q must be absolute", origin)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("api proxy failed", slog.String("url", r.URL.RequestURI()), slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadGateway, errorBody("upstream unavailable"))
		},
	}, nil
}
