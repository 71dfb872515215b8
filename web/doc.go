// Package web renders the localized pages and handles locale switching.
//
// Pages read the locale that server/middleware.LocaleRouting attached to the
// request. Routes outside locale routing (API calls, exempt prefixes) resolve
// it from the cookie without writing anything.
package web
