package locale

import (
	"fmt"
	"net/http"
)

// Cookie attributes persisted for the active locale.
const (
	CookieName   = "NEXT_LOCALE"
	CookiePath   = "/"
	CookieMaxAge = 31536000
)

// Cookie builds the persisted locale cookie:
// NEXT_LOCALE=<l>; Path=/; Max-Age=31536000; SameSite=Lax.
func Cookie(l Locale) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    string(l),
		Path:     CookiePath,
		MaxAge:   CookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromCookie reads the locale cookie from r. ok is false when the cookie is
// absent or does not name a supported locale.
func (s *Set) FromCookie(r *http.Request) (Locale, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return s.Parse(c.Value)
}

// UnsupportedError reports a request for a locale outside the set.
type UnsupportedError struct {
	Requested string
	Supported []Locale
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("locale: %q is not supported (supported: %v)", e.Requested, e.Supported)
}

// Switch changes the active locale from current to requested.
//
// Requesting the current locale is a no-op: nothing is written and reload
// is false. Requesting another supported locale writes the cookie and
// reports that the page must be fully reloaded. An unsupported locale
// returns *UnsupportedError and writes nothing.
func (s *Set) Switch(w http.ResponseWriter, current Locale, requested string) (reload bool, err error) {
	next, ok := s.Parse(requested)
	if !ok {
		return false, &UnsupportedError{Requested: requested, Supported: s.Supported()}
	}
	if next == current {
		return false, nil
	}
	http.SetCookie(w, Cookie(next))
	return true, nil
}
