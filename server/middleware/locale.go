package middleware

import (
	"net/http"
	"strings"

	"github.com/kbukum/marketweb/locale"
	"github.com/kbukum/marketweb/logger"
)

// DefaultExemptPrefixes are served without locale handling. Matching is a
// literal string prefix, so "/provider" also covers "/providers".
var DefaultExemptPrefixes = []string{
	"/login",
	"/signup",
	"/forgot-password",
	"/verify-password-reset",
	"/new-password",
	"/customer",
	"/provider",
	"/support",
}

// ScopeMatcher decides which paths locale routing looks at. A path is out of
// scope when the part after the leading slash starts with one of Excluded or
// contains a dot.
type ScopeMatcher struct {
	Excluded []string
}

// DefaultScope skips API routes, framework asset prefixes and files.
var DefaultScope = ScopeMatcher{Excluded: []string{"api", "_next", "_vercel"}}

// Match reports whether path is in scope.
func (m ScopeMatcher) Match(path string) bool {
	rest := strings.TrimPrefix(path, "/")
	for _, p := range m.Excluded {
		if strings.HasPrefix(rest, p) {
			return false
		}
	}
	return !strings.Contains(rest, ".")
}

// LocaleConfig configures LocaleRouting.
type LocaleConfig struct {
	Negotiator *locale.Negotiator
	// ExemptPrefixes defaults to DefaultExemptPrefixes.
	ExemptPrefixes []string
	// Scope defaults to DefaultScope.
	Scope *ScopeMatcher
}

// LocaleRouting resolves the locale of page requests.
//
// Out-of-scope and exempt paths are forwarded untouched. A path led by a
// supported locale segment is redirected (307) to the same path without it,
// with the cookie set to that locale. Every other request gets the
// negotiated locale in its context and Content-Language, and the cookie is
// written when it is missing or names something else. The URL is never
// given a locale prefix.
func LocaleRouting(cfg LocaleConfig, log *logger.Logger) Middleware {
	exempt := cfg.ExemptPrefixes
	if exempt == nil {
		exempt = DefaultExemptPrefixes
	}
	scope := DefaultScope
	if cfg.Scope != nil {
		scope = *cfg.Scope
	}
	neg := cfg.Negotiator
	set := neg.Set
	log = log.WithComponent("locale")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if !scope.Match(path) || hasAnyPrefix(path, exempt) {
				next.ServeHTTP(w, r)
				return
			}

			if l, rest, ok := splitLocaleSegment(set, path); ok {
				target := rest
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.SetCookie(w, locale.Cookie(l))
				http.Redirect(w, r, target, http.StatusTemporaryRedirect)
				return
			}

			res := neg.Resolve(r)
			if c, err := r.Cookie(locale.CookieName); err != nil || c.Value != string(res.Locale) {
				http.SetCookie(w, locale.Cookie(res.Locale))
			}
			w.Header().Set("Content-Language", res.Locale.String())

			ctx := locale.WithContext(r.Context(), res.Locale)
			ctx = logger.ContextWithLocale(ctx, res.Locale.String())
			log.WithContext(ctx).Debug("Locale resolved", logger.Fields(
				logger.FieldPath, path,
				"source", string(res.Source),
			))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// splitLocaleSegment reports whether the first path segment is a supported
// locale and returns the path without it. Leading slashes and backslashes of
// the remainder collapse into one slash, so the result is always a path on
// this site and never a protocol-relative URL.
func splitLocaleSegment(set *locale.Set, path string) (locale.Locale, string, bool) {
	trimmed := strings.TrimPrefix(path, "/")
	seg, rest, _ := strings.Cut(trimmed, "/")
	l := locale.Locale(seg)
	if seg == "" || !set.Contains(l) {
		return "", "", false
	}
	return l, "/" + strings.TrimLeft(rest, `/\`), true
}
