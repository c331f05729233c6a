// Package pathnorm canonicalizes page paths so that spellings like
// "/foo", "/foo/", "//foo//" and "https://host/foo?x=1" all aggregate
// under the same key.
package pathnorm

import (
	"net/url"
	"regexp"
	"strings"
)

// Matches a leading URL scheme, e.g. "https://" or "android-app://".
var absoluteURLPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// Normalize maps an arbitrary path or URL string to its canonical form.
// The result is always non-empty, starts with "/", and ends with "/"
// (the root path stays exactly "/"). Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "/"
	}

	// Full URLs contribute only their path component. A string that looks
	// like a URL but fails to parse is treated as a plain path instead of
	// failing the caller.
	if absoluteURLPattern.MatchString(s) {
		if u, err := url.Parse(s); err == nil {
			s = u.Path
		}
	}

	// Drop query string and fragment, whichever starts first.
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}

	s = collapseSlashes(s)

	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	if s != "/" && !strings.HasSuffix(s, "/") {
		s += "/"
	}
	if s == "" {
		return "/"
	}
	return s
}

// collapseSlashes reduces every run of consecutive slashes to a single one.
func collapseSlashes(s string) string {
	if !strings.Contains(s, "//") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prevSlash := false
	for _, r := range s {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
