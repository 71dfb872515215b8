// Package locale owns the supported-locale set, the NEXT_LOCALE cookie and
// request negotiation.
//
// The active locale is always a member of the Set. Negotiation is
// cookie-driven: a valid cookie wins, then (when enabled) Accept-Language,
// then the default. Locales never appear as a URL prefix.
package locale
