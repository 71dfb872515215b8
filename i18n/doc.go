// Package i18n serves translated UI strings from TOML catalogs embedded per
// supported locale (locales/active.<locale>.toml).
package i18n
