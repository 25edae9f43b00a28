// Package i18n holds the bot-facing message catalog.
package i18n

import "golang.org/x/text/language"

// Lang represents a supported language
type Lang string

const (
	RU Lang = "ru"
	EN Lang = "en"
)

// The first tag is the fallback for unknown codes.
var (
	supported = []Lang{RU, EN}
	matcher   = language.NewMatcher([]language.Tag{
		language.Russian,
		language.English,
	})
)

// DetectLang detects language from Telegram's language_code field
func DetectLang(languageCode string) Lang {
	if languageCode == "" {
		return RU
	}
	_, idx := language.MatchStrings(matcher, languageCode)
	return supported[idx]
}

// ParseLang parses a stored language string into Lang, defaulting to RU
func ParseLang(s string) Lang {
	if Lang(s) == EN {
		return EN
	}
	return RU
}
