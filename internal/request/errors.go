package request

import (
	"fmt"
	"strings"
)

// MissingInputError is returned when no --url, --text or --pdf was given.
type MissingInputError struct{}

func (*MissingInputError) Error() string {
	return "at least one of --url, --text, or --pdf is required"
}

// UnsupportedLanguageError is returned for an explicit --lang outside the
// supported set.
type UnsupportedLanguageError struct {
	Code string
}

func (e *UnsupportedLanguageError) Error() string {
	codes := make([]string, 0, len(SupportedLanguages()))
	for _, l := range SupportedLanguages() {
		codes = append(codes, string(l))
	}
	return fmt.Sprintf("unsupported language %q (supported: %s)", e.Code, strings.Join(codes, ", "))
}

// MissingCredentialError is returned when a selected service has no API key
// in the environment.
type MissingCredentialError struct {
	// Service is the provider or collaborator needing the key ("elevenlabs", "llm").
	Service string
	EnvVar  string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s not set (required for %s)", e.EnvVar, e.Service)
}

// MissingVoiceError is returned when no layer supplies a voice for a speaker.
type MissingVoiceError struct {
	Provider string
	Role     string
}

func (e *MissingVoiceError) Error() string {
	return fmt.Sprintf("no %s voice configured for tts provider %s", e.Role, e.Provider)
}
