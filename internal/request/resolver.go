package request

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nadzzz/podcastgen/internal/env"
	"github.com/nadzzz/podcastgen/internal/tts"
)

// LLMCredentialEnv holds the key for the dialogue-generating LLM. It is
// required on every run regardless of TTS provider.
const LLMCredentialEnv = "GEMINI_API_KEY"

// OutputExt is the extension of generated output paths.
const OutputExt = ".ogg"

// Input carries the CLI values that are not part of the layered config.
// Empty strings mean "flag not given".
type Input struct {
	URLs []string
	Text string
	PDF  string

	Language string

	// ElevenLabs switches the provider to tts.ProviderElevenLabs.
	ElevenLabs bool

	HostVoice   string
	CohostVoice string

	// Voice is the legacy flag that sets both voices at once.
	Voice string

	Output string
}

// Resolver turns layers and CLI input into a GenerationRequest.
type Resolver struct {
	env     env.Provider
	tempDir string
	newID   func() string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTempDir sets the directory for generated output paths.
func WithTempDir(dir string) Option {
	return func(r *Resolver) { r.tempDir = dir }
}

// WithIDFunc replaces the generator for output file names.
func WithIDFunc(fn func() string) Option {
	return func(r *Resolver) { r.newID = fn }
}

// NewResolver creates a Resolver reading credentials from e.
func NewResolver(e env.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		env:     e,
		tempDir: os.TempDir(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve folds Defaults() with the given layers (lowest precedence first)
// and applies in. It performs no I/O beyond environment lookups.
func (r *Resolver) Resolve(in Input, layers ...Layer) (*GenerationRequest, error) {
	sources, err := collectSources(in)
	if err != nil {
		return nil, err
	}

	lang, err := ParseLanguage(in.Language)
	if err != nil {
		return nil, err
	}

	cfg := Fold(append([]Layer{Defaults()}, layers...)...)

	provider := deref(cfg.Provider)
	if provider == "" {
		provider = tts.DefaultProvider
	}
	if in.ElevenLabs {
		provider = tts.ProviderElevenLabs
	}

	if err := r.checkCredentials(provider); err != nil {
		return nil, err
	}

	voices, err := resolveVoices(in, provider, lang, cfg)
	if err != nil {
		return nil, err
	}

	host := Speaker{Role: deref(cfg.HostRole), Voice: voices.Host}
	host.Name = nameOrRole(cfg.HostName, host.Role)
	cohost := Speaker{Role: deref(cfg.CohostRole), Voice: voices.Cohost}
	cohost.Name = nameOrRole(cfg.CohostName, cohost.Role)

	output := in.Output
	if output == "" {
		output = filepath.Join(r.tempDir, "podcast-"+r.newID()+OutputExt)
	}

	req := &GenerationRequest{
		Sources:  sources,
		Language: lang,
		Podcast: Podcast{
			Name:    deref(cfg.PodcastName),
			Tagline: deref(cfg.PodcastTagline),
		},
		Host:       host,
		Cohost:     cohost,
		Provider:   provider,
		OutputPath: output,
	}

	slog.Debug("request resolved",
		"sources", len(req.Sources),
		"language", req.Language,
		"provider", req.Provider,
		"host_voice", req.Host.Voice,
		"cohost_voice", req.Cohost.Voice,
		"output", req.OutputPath)

	return req, nil
}

func collectSources(in Input) ([]Source, error) {
	var sources []Source
	for _, u := range in.URLs {
		if u != "" {
			sources = append(sources, Source{Kind: SourceURL, Value: u})
		}
	}
	if in.Text != "" {
		sources = append(sources, Source{Kind: SourceText, Value: in.Text})
	}
	if in.PDF != "" {
		sources = append(sources, Source{Kind: SourceFile, Value: in.PDF})
	}
	if len(sources) == 0 {
		return nil, &MissingInputError{}
	}
	return sources, nil
}

func (r *Resolver) checkCredentials(provider tts.Provider) error {
	if !env.NonEmpty(r.env, LLMCredentialEnv) {
		return &MissingCredentialError{Service: "llm", EnvVar: LLMCredentialEnv}
	}
	if name, ok := provider.CredentialEnv(); ok && !env.NonEmpty(r.env, name) {
		return &MissingCredentialError{Service: provider.String(), EnvVar: name}
	}
	return nil
}

// resolveVoices applies, highest precedence first: explicit voice flags,
// the per-language table, the flat provider default. Any explicit flag
// disables the language table for both speakers.
func resolveVoices(in Input, provider tts.Provider, lang Language, cfg Layer) (tts.VoicePair, error) {
	explicit := tts.VoicePair{Host: in.HostVoice, Cohost: in.CohostVoice}
	if in.Voice != "" {
		if explicit.Host != "" || explicit.Cohost != "" {
			slog.Warn("--voice ignored because --host-voice or --cohost-voice is set")
		} else {
			explicit = tts.VoicePair{Host: in.Voice, Cohost: in.Voice}
		}
	}

	voices := cfg.Voices[provider]
	switch {
	case explicit.Host != "" || explicit.Cohost != "":
		voices = voices.Merge(explicit)
	case !lang.IsAuto():
		if pair, ok := cfg.LanguageVoices.Lookup(provider, string(lang)); ok {
			voices = voices.Merge(pair)
		}
	}

	if voices.Host == "" {
		return tts.VoicePair{}, &MissingVoiceError{Provider: provider.String(), Role: "host"}
	}
	if voices.Cohost == "" {
		return tts.VoicePair{}, &MissingVoiceError{Provider: provider.String(), Role: "co-host"}
	}
	return voices, nil
}

// nameOrRole falls back to the role placeholder when the name is unset or
// explicitly empty; a speaker is never anonymous.
func nameOrRole(name *string, role string) string {
	if n := deref(name); n != "" {
		return n
	}
	return role
}
