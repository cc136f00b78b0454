// Package request builds the single, immutable GenerationRequest handed to
// the podcast generation pipeline.
//
// Three configuration layers are folded left to right (built-in defaults,
// the YAML config file, CLI overrides) and combined with the CLI inputs that
// have no layered counterpart (sources, language, voice flags, output path).
// Every failure is detected here, before any paid API call is made.
package request

import (
	"github.com/nadzzz/podcastgen/internal/tts"
)

// SourceKind tags a source descriptor.
type SourceKind string

const (
	SourceURL  SourceKind = "url"
	SourceText SourceKind = "text"
	SourceFile SourceKind = "file"
)

// Source is one unit of input content to be turned into dialogue.
type Source struct {
	Kind  SourceKind `json:"kind"`
	Value string     `json:"value"`
}

// Podcast is the show branding. An empty Name means no branding.
type Podcast struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
}

// Speaker is one of the two dialogue voices.
type Speaker struct {
	// Role is the placeholder from configuration ("host", "co-host").
	Role string `json:"role"`

	// Name is the display name; it equals Role unless overridden.
	Name string `json:"name"`

	// Voice is the provider-specific voice identifier.
	Voice string `json:"voice"`
}

// Describe renders the role the dialogue generator is asked to play, e.g.
// "host" or "host named Alex".
func (s Speaker) Describe() string {
	if s.Name == "" || s.Name == s.Role {
		return s.Role
	}
	return s.Role + " named " + s.Name
}

// GenerationRequest is the fully-resolved parameter set for one generation.
// It is built once by Resolver.Resolve and never mutated afterwards.
type GenerationRequest struct {
	Sources    []Source     `json:"sources"`
	Language   Language     `json:"language"`
	Podcast    Podcast      `json:"podcast"`
	Host       Speaker      `json:"host"`
	Cohost     Speaker      `json:"cohost"`
	Provider   tts.Provider `json:"provider"`
	OutputPath string       `json:"output_path"`
}

// Voices returns the resolved voice pair.
func (r *GenerationRequest) Voices() tts.VoicePair {
	return tts.VoicePair{Host: r.Host.Voice, Cohost: r.Cohost.Voice}
}

// SourcesOf returns the values of all sources of the given kind, in order.
func (r *GenerationRequest) SourcesOf(kind SourceKind) []string {
	var out []string
	for _, s := range r.Sources {
		if s.Kind == kind {
			out = append(out, s.Value)
		}
	}
	return out
}
