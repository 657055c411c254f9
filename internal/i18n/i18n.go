package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEN = "en"
	LocaleRU = "ru"

	// DefaultLocale is used when nothing in the request selects a locale.
	DefaultLocale = LocaleEN
)

const localeHeader = "X-Locale"

// NormalizeLocale maps free-form language tags (ru-RU, en_US, ...) onto a supported locale.
func NormalizeLocale(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(l, "ru"):
		return LocaleRU
	case strings.HasPrefix(l, "en"):
		return LocaleEN
	default:
		return DefaultLocale
	}
}

// ResolveLocale picks the locale of a request: explicit header, then ?lang=, then Accept-Language.
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if v := strings.TrimSpace(c.GetHeader(localeHeader)); v != "" {
		return NormalizeLocale(v)
	}
	if v := strings.TrimSpace(c.Query("lang")); v != "" {
		return NormalizeLocale(v)
	}
	accept := strings.TrimSpace(c.GetHeader("Accept-Language"))
	if accept == "" {
		return DefaultLocale
	}
	first := strings.SplitN(accept, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	return NormalizeLocale(first)
}

// T returns the message for key in locale, falling back to English and then to the key itself.
func T(locale, key string) string {
	if msgs, ok := catalog[NormalizeLocale(locale)]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[LocaleEN][key]; ok {
		return msg
	}
	return key
}

// Sprintf formats a catalog message with args.
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
