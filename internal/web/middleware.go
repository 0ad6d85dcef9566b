package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// CanonicalHost redirects requests whose forwarded host differs from the
// host of origin. Requests that carry no forwarding headers pass through.
// An empty or unparsable origin disables the redirect.
func CanonicalHost(origin string) func(http.Handler) http.Handler {
	u, err := url.Parse(strings.TrimRight(origin, "/"))
	if err != nil || u.Host == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	base := u.Scheme + "://" + u.Host

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := forwardedHost(r)
			if host == "" || strings.EqualFold(host, u.Host) {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, base+r.URL.RequestURI(), http.StatusMovedPermanently)
		})
	}
}

// forwardedHost reads the client-facing host from Forwarded (RFC 7239),
// falling back to X-Forwarded-Host. Only the first hop counts.
func forwardedHost(r *http.Request) string {
	if fwd := r.Header.Get("Forwarded"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		for _, pair := range strings.Split(first, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if ok && strings.EqualFold(k, "host") {
				return strings.Trim(v, `"`)
			}
		}
	}
	if xfh := r.Header.Get("X-Forwarded-Host"); xfh != "" {
		first, _, _ := strings.Cut(xfh, ",")
		return strings.TrimSpace(first)
	}
	return ""
}

// RequestLogger logs one structured line per request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					slog.Int("status", ww.Status()),
					slog.String("method", r.Method),
					slog.String("url", r.URL.RequestURI()),
					slog.Float64("response_time", float64(time.Since(start).Microseconds())/1000),
					slog.Int("bytes", ww.BytesWritten()),
					slog.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
