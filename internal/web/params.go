package web

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/suppai/internal/apperr"
)

var (
	idRules = []validation.Rule{
		validation.Required,
		validation.Length(1, 128),
		validation.Match(regexp.MustCompile(`^[A-Za-z0-9._-]+$`)),
	}
	// Slugs carry any letter the backend keeps, so only their size is checked.
	slugRules = []validation.Rule{
		validation.Required,
		validation.Length(1, 512),
	}
)

// pathParam returns a validated identifier route parameter.
func pathParam(r *http.Request, name string) (string, error) {
	return checkedParam(r, name, idRules)
}

// slugParam returns the slug route parameter.
func slugParam(r *http.Request) (string, error) {
	return checkedParam(r, "slug", slugRules)
}

func checkedParam(r *http.Request, name string, rules []validation.Rule) (string, error) {
	v := chi.URLParam(r, name)
	if err := validation.Validate(v, rules...); err != nil {
		return "", apperr.Validation(name, err)
	}
	return v, nil
}

// sameSlug reports whether a backend slug, which is query-escaped, names the
// same path segment as a route parameter. chi hands over the parameter decoded
// unless the request path needed a raw form, so both sides are unescaped.
func sameSlug(backend, param string) bool {
	return unescapeSlug(backend) == unescapeSlug(param)
}

func unescapeSlug(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

// intParam reads a non-negative integer query parameter, or def.
func intParam(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// withParam returns the request path with name set to n.
func withParam(r *http.Request, name string, n int) string {
	v := r.URL.Query()
	v.Set(name, strconv.Itoa(n))
	return r.URL.EscapedPath() + "?" + v.Encode()
}

// toggleURL flips list in the expand parameter of the current request.
func toggleURL(r *http.Request, list string) string {
	v := r.URL.Query()
	kept := v["expand"][:0:0]
	found := false
	for _, e := range v["expand"] {
		if e == list {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		kept = append(kept, list)
	}
	if len(kept) == 0 {
		v.Del("expand")
	} else {
		v["expand"] = kept
	}
	if len(v) == 0 {
		return r.URL.EscapedPath()
	}
	return r.URL.EscapedPath() + "?" + v.Encode()
}
