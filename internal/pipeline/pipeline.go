// Package pipeline hands a resolved GenerationRequest to the external
// podcast generator and places the produced audio at the requested path.
//
// Generation is delegated to a Generator backend (a local podcastfy
// subprocess or a remote service); format conversion is delegated to a
// Transcoder. Neither call is inspected or retried here.
package pipeline

import (
	"context"

	"github.com/nadzzz/podcastgen/internal/request"
)

// Artifact is an audio file produced by a Generator.
type Artifact struct {
	// Path is the local file holding the audio.
	Path string

	// Format is the container/codec extension without the dot ("mp3", "ogg").
	Format string
}

// Generator produces podcast audio from a resolved request.
type Generator interface {
	// Name returns the backend identifier (e.g., "podcastfy", "remote").
	Name() string

	// Generate runs the full content → dialogue → speech chain.
	Generate(ctx context.Context, req *request.GenerationRequest) (*Artifact, error)

	// Close releases any resources held by the generator.
	Close() error
}

// Transcoder converts an audio file into the format implied by dst's extension.
type Transcoder interface {
	Transcode(ctx context.Context, src, dst string) error
}
