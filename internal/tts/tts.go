// Package tts describes the text-to-speech backends a podcast can be voiced
// with.
//
// Synthesis itself happens in the external generation pipeline. This package
// only knows which providers exist, which credential each one needs, and
// which host/co-host voice pair to use for a provider and language.
package tts

import (
	"fmt"
	"strings"
)

// Provider identifies a TTS backend.
type Provider string

const (
	// ProviderOpenAI is the default cloud TTS backend.
	ProviderOpenAI Provider = "openai"

	// ProviderElevenLabs is the alternate cloud TTS backend (--elevenlabs).
	ProviderElevenLabs Provider = "elevenlabs"

	// ProviderSherpa runs sherpa-onnx with Piper VITS models on the local CPU.
	// Voices are model directories, optionally suffixed with ":sid=<N>".
	ProviderSherpa Provider = "sherpa"
)

// DefaultProvider is used when neither the config file nor the CLI picks one.
const DefaultProvider = ProviderOpenAI

// Providers lists every supported backend in display order.
var Providers = []Provider{ProviderOpenAI, ProviderElevenLabs, ProviderSherpa}

// credentialEnv maps a provider to the environment variable holding its API
// key. Providers that run locally have no entry.
var credentialEnv = map[Provider]string{
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderElevenLabs: "ELEVENLABS_API_KEY",
}

// defaultVoices is the flat per-provider fallback pair.
var defaultVoices = map[Provider]VoicePair{
	ProviderOpenAI:     {Host: "onyx", Cohost: "nova"},
	ProviderElevenLabs: {Host: "Daniel", Cohost: "Alice"},
}

// ParseProvider validates a provider name (case-insensitive).
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown tts provider %q", s)
}

// CredentialEnv returns the environment variable that must be set to use p.
// ok is false for providers that need no credential.
func (p Provider) CredentialEnv() (name string, ok bool) {
	name, ok = credentialEnv[p]
	return name, ok
}

func (p Provider) String() string { return string(p) }

// VoicePair is the voice assignment for the two speakers.
type VoicePair struct {
	Host   string `mapstructure:"host" yaml:"host"`
	Cohost string `mapstructure:"cohost" yaml:"cohost"`
}

// Complete reports whether both voices are set.
func (v VoicePair) Complete() bool {
	return v.Host != "" && v.Cohost != ""
}

// Merge returns v with the non-empty fields of o laid over it.
func (v VoicePair) Merge(o VoicePair) VoicePair {
	if o.Host != "" {
		v.Host = o.Host
	}
	if o.Cohost != "" {
		v.Cohost = o.Cohost
	}
	return v
}

// DefaultVoices returns a copy of the built-in flat voice pairs.
func DefaultVoices() map[Provider]VoicePair {
	out := make(map[Provider]VoicePair, len(defaultVoices))
	for k, v := range defaultVoices {
		out[k] = v
	}
	return out
}

// LanguageVoices is a per-provider, per-language voice table keyed by
// ISO-639-1 code.
type LanguageVoices map[Provider]map[string]VoicePair

// Lookup returns the pair configured for provider p and language code lang.
func (t LanguageVoices) Lookup(p Provider, lang string) (VoicePair, bool) {
	byLang, ok := t[p]
	if !ok {
		return VoicePair{}, false
	}
	pair, ok := byLang[strings.ToLower(lang)]
	return pair, ok
}
