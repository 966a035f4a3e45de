// Package i18n resolves the site's two locales and localized field values.
package i18n

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

type Locale string

const (
	DE Locale = "de"
	EN Locale = "en"

	DefaultLocale = DE
)

// Locales lists the supported locales, default first.
var Locales = []Locale{DE, EN}

// ParseLocale maps a lang query value to a supported locale. Anything other
// than "de" or "en" silently becomes the default.
func ParseLocale(s string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case EN:
		return EN
	case DE:
		return DE
	default:
		return DefaultLocale
	}
}

// Other returns the alternate locale.
func Other(l Locale) Locale {
	if l == EN {
		return DE
	}
	return EN
}

func (l Locale) Valid() bool { return l == DE || l == EN }

func (l Locale) String() string { return string(l) }

// Tag returns the x/text language tag for the locale.
func (l Locale) Tag() language.Tag {
	if l == EN {
		return language.English
	}
	return language.German
}

// URL returns path with the lang query parameter set to l. Other query
// parameters already on path are kept. The result is always site-relative:
// scheme, host and user info are dropped and leading slashes collapse to one.
func URL(path string, l Locale) string {
	u, err := url.Parse(path)
	if err != nil {
		return "/?lang=" + string(l)
	}
	u.Scheme, u.Host, u.User, u.Opaque = "", "", nil, ""
	u.Path = "/" + strings.TrimLeft(u.Path, "/\\")
	u.RawPath = ""
	q := u.Query()
	q.Set("lang", string(l))
	u.RawQuery = q.Encode()
	return u.String()
}
