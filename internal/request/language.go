package request

import (
	"strings"
)

// Language is an ISO-639-1 output language, or LanguageAuto.
type Language string

// LanguageAuto defers the choice to the pipeline, which detects the
// language from the source content.
const LanguageAuto Language = "auto"

var languageNames = map[Language]string{
	"en": "English",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
}

// languageAliases maps accepted spellings to their code.
var languageAliases = map[string]Language{
	"english":  "en",
	"german":   "de",
	"deutsch":  "de",
	"french":   "fr",
	"français": "fr",
	"spanish":  "es",
	"español":  "es",
}

// SupportedLanguages lists the explicit codes accepted by ParseLanguage.
func SupportedLanguages() []Language {
	return []Language{"en", "de", "fr", "es"}
}

// ParseLanguage validates an explicit language. An empty string means the
// flag was not given and yields LanguageAuto.
func ParseLanguage(s string) (Language, error) {
	if s == "" {
		return LanguageAuto, nil
	}
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := languageNames[Language(key)]; ok {
		return Language(key), nil
	}
	if code, ok := languageAliases[key]; ok {
		return code, nil
	}
	return "", &UnsupportedLanguageError{Code: s}
}

// IsAuto reports whether the language is left to detection.
func (l Language) IsAuto() bool { return l == LanguageAuto || l == "" }

// Name returns the English display name ("German"), or "" for auto.
func (l Language) Name() string { return languageNames[l] }

func (l Language) String() string { return string(l) }
