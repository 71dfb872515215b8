package locale

import "net/http"

// Source records where a resolved locale came from.
type Source string

const (
	SourceCookie  Source = "cookie"
	SourceHeader  Source = "header"
	SourceDefault Source = "default"
)

// Resolution is the outcome of negotiating a request's locale.
type Resolution struct {
	Locale Locale
	Source Source
}

// Negotiator resolves the locale of an incoming request.
type Negotiator struct {
	Set *Set
	// DetectFromHeader consults Accept-Language when no valid cookie is
	// present. Off by default.
	DetectFromHeader bool
}

// NewNegotiator creates a cookie-driven negotiator over set.
func NewNegotiator(set *Set) *Negotiator {
	return &Negotiator{Set: set}
}

// Resolve picks the locale for r: cookie, then Accept-Language when
// enabled, then the default. The result is always in the set.
func (n *Negotiator) Resolve(r *http.Request) Resolution {
	if l, ok := n.Set.FromCookie(r); ok {
		return Resolution{Locale: l, Source: SourceCookie}
	}
	if n.DetectFromHeader {
		if l, ok := n.Set.MatchAcceptLanguage(r.Header.Get("Accept-Language")); ok {
			return Resolution{Locale: l, Source: SourceHeader}
		}
	}
	return Resolution{Locale: n.Set.Default(), Source: SourceDefault}
}
