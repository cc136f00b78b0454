package request

import (
	"github.com/nadzzz/podcastgen/internal/tts"
)

// Layer is a partial override of the configurable request fields. A nil
// pointer means "not set by this layer"; a non-nil pointer to "" is an
// explicit empty value and wins over earlier layers.
type Layer struct {
	PodcastName    *string
	PodcastTagline *string

	HostRole   *string
	CohostRole *string
	HostName   *string
	CohostName *string

	Provider *tts.Provider

	// Voices holds flat per-provider pairs, merged field by field.
	Voices map[tts.Provider]tts.VoicePair

	// LanguageVoices is merged per provider and language.
	LanguageVoices tts.LanguageVoices
}

// Defaults is the built-in bottom layer.
func Defaults() Layer {
	provider := tts.DefaultProvider
	return Layer{
		PodcastName:    ptr("AI Podcast"),
		PodcastTagline: ptr("Your AI-generated deep dive"),
		HostRole:       ptr("host"),
		CohostRole:     ptr("co-host"),
		Provider:       &provider,
		Voices:         tts.DefaultVoices(),
	}
}

// Fold applies layers in increasing precedence.
func Fold(layers ...Layer) Layer {
	var out Layer
	for _, l := range layers {
		out = out.apply(l)
	}
	return out
}

func (l Layer) apply(o Layer) Layer {
	override(&l.PodcastName, o.PodcastName)
	override(&l.PodcastTagline, o.PodcastTagline)
	override(&l.HostRole, o.HostRole)
	override(&l.CohostRole, o.CohostRole)
	override(&l.HostName, o.HostName)
	override(&l.CohostName, o.CohostName)
	override(&l.Provider, o.Provider)

	if len(o.Voices) > 0 {
		merged := make(map[tts.Provider]tts.VoicePair, len(l.Voices)+len(o.Voices))
		for p, v := range l.Voices {
			merged[p] = v
		}
		for p, v := range o.Voices {
			merged[p] = merged[p].Merge(v)
		}
		l.Voices = merged
	}

	if len(o.LanguageVoices) > 0 {
		merged := make(tts.LanguageVoices, len(l.LanguageVoices)+len(o.LanguageVoices))
		for p, byLang := range l.LanguageVoices {
			merged[p] = make(map[string]tts.VoicePair, len(byLang))
			for lang, v := range byLang {
				merged[p][lang] = v
			}
		}
		for p, byLang := range o.LanguageVoices {
			if merged[p] == nil {
				merged[p] = make(map[string]tts.VoicePair, len(byLang))
			}
			for lang, v := range byLang {
				merged[p][lang] = v
			}
		}
		l.LanguageVoices = merged
	}

	return l
}

func override[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func ptr[T any](v T) *T { return &v }

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
