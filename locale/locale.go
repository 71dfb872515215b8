package locale

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a BCP 47 language tag such as "en".
type Locale string

// English is the default locale.
const English Locale = "en"

func (l Locale) String() string { return string(l) }

// Tag returns the parsed language tag, or language.Und when l is invalid.
func (l Locale) Tag() language.Tag {
	t, err := language.Parse(string(l))
	if err != nil {
		return language.Und
	}
	return t
}

// Set is an immutable set of supported locales with a designated default.
type Set struct {
	def       Locale
	supported []Locale
	tags      []language.Tag
	matcher   language.Matcher
}

// NewSet creates a set with def first, followed by others. Duplicates are
// dropped. Every locale must be a valid language tag.
func NewSet(def Locale, others ...Locale) (*Set, error) {
	s := &Set{def: def}
	for _, l := range append([]Locale{def}, others...) {
		l = Locale(strings.TrimSpace(string(l)))
		if l == "" {
			return nil, fmt.Errorf("locale: empty locale")
		}
		tag, err := language.Parse(string(l))
		if err != nil {
			return nil, fmt.Errorf("locale: invalid tag %q: %w", l, err)
		}
		if slices.Contains(s.supported, l) {
			continue
		}
		s.supported = append(s.supported, l)
		s.tags = append(s.tags, tag)
	}
	s.def = s.supported[0]
	s.matcher = language.NewMatcher(s.tags)
	return s, nil
}

// MustNewSet is NewSet that panics on error.
func MustNewSet(def Locale, others ...Locale) *Set {
	s, err := NewSet(def, others...)
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultSet returns {"en"} with "en" as default.
func DefaultSet() *Set {
	return MustNewSet(English)
}

// Default returns the default locale.
func (s *Set) Default() Locale { return s.def }

// Supported returns the supported locales, default first.
func (s *Set) Supported() []Locale { return slices.Clone(s.supported) }

// Contains reports whether l is supported exactly.
func (s *Set) Contains(l Locale) bool { return slices.Contains(s.supported, l) }

// Parse maps raw to a supported locale. An exact match wins; otherwise a
// supported locale with the same base language is accepted ("en-GB" -> "en").
func (s *Set) Parse(raw string) (Locale, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if s.Contains(Locale(raw)) {
		return Locale(raw), true
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	for i, t := range s.tags {
		if b, _ := t.Base(); b == base {
			return s.supported[i], true
		}
	}
	return "", false
}

// MatchAcceptLanguage picks the best supported locale for an
// Accept-Language header. ok is false when nothing matches with at least
// high confidence.
func (s *Set) MatchAcceptLanguage(header string) (Locale, bool) {
	if strings.TrimSpace(header) == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := s.matcher.Match(tags...)
	if conf < language.High {
		return "", false
	}
	return s.supported[idx], true
}

type ctxKey struct{}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the locale stored in ctx.
func FromContext(ctx context.Context) (Locale, bool) {
	l, ok := ctx.Value(ctxKey{}).(Locale)
	return l, ok
}
