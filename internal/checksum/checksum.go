// Package checksum derives HTTP entity tags from response bodies.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ETag returns a strong entity tag for body: the first 128 bits of its
// SHA-256 digest, hex-encoded and quoted.
func ETag(body []byte) string {
	h := sha256.Sum256(body)
	return `"` + hex.EncodeToString(h[:16]) + `"`
}

// WeakETag returns ETag(body) marked weak. Pages are served both gzipped
// and as identity from the same bytes, so only a weak tag is truthful.
func WeakETag(body []byte) string {
	return "W/" + ETag(body)
}

// Matches reports whether an If-None-Match header value lists etag, using
// the weak comparison: the W/ prefix is ignored on both sides.
func Matches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	etag = strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
