// Package config handles loading the podcastgen configuration file.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nadzzz/podcastgen/internal/request"
	"github.com/nadzzz/podcastgen/internal/tts"
)

// Config is the root configuration for podcastgen.
//
// Fields that feed the generation request are pointers: nil means the file
// did not mention the key, while a pointer to "" is an explicit empty value.
type Config struct {
	Podcast      PodcastConfig  `mapstructure:"podcast"`
	Roles        RolesConfig    `mapstructure:"roles"`
	TTS          TTSConfig      `mapstructure:"tts"`
	Conversation map[string]any `mapstructure:"conversation"` // passed through to podcastfy
	Pipeline     PipelineConfig `mapstructure:"pipeline"`
	Logging      LoggingConfig  `mapstructure:"logging"`
}

// PodcastConfig holds the show branding.
type PodcastConfig struct {
	Name    *string `mapstructure:"name"`
	Tagline *string `mapstructure:"tagline"`
}

// RolesConfig holds the speaker role placeholders ("host", "co-host").
type RolesConfig struct {
	Host   *string `mapstructure:"host"`
	Cohost *string `mapstructure:"cohost"`
}

// TTSConfig selects the provider and its voices.
type TTSConfig struct {
	Provider       *string                             `mapstructure:"provider"`        // "openai", "elevenlabs" or "sherpa"
	Voices         map[string]tts.VoicePair            `mapstructure:"voices"`          // provider -> flat default pair
	LanguageVoices map[string]map[string]tts.VoicePair `mapstructure:"language_voices"` // provider -> ISO-639-1 code -> pair
}

// PipelineConfig selects and configures the generation backend.
type PipelineConfig struct {
	Backend   string          `mapstructure:"backend"` // "podcastfy" or "remote"
	Podcastfy PodcastfyConfig `mapstructure:"podcastfy"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	FFmpeg    FFmpegConfig    `mapstructure:"ffmpeg"`
}

// PodcastfyConfig configures the local podcastfy subprocess.
type PodcastfyConfig struct {
	Python           string        `mapstructure:"python"` // interpreter of the venv with podcastfy installed
	Timeout          time.Duration `mapstructure:"timeout"`
	TranscriptsDir   string        `mapstructure:"transcripts_dir"`
	TranscriptMaxAge time.Duration `mapstructure:"transcript_max_age"`
}

// RemoteConfig configures a remote generation service reached over gRPC.
type RemoteConfig struct {
	Address  string        `mapstructure:"address"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Insecure bool          `mapstructure:"insecure"`
}

// FFmpegConfig configures the OGG transcoder.
type FFmpegConfig struct {
	Binary  string `mapstructure:"binary"`
	Bitrate string `mapstructure:"bitrate"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./podcastgen.yaml, ./config/podcastgen.yaml,
// $HOME/.config/podcastgen/podcastgen.yaml.
//
// Only ambient settings get viper defaults. The built-in defaults for the
// request fields live in request.Defaults so that the file layer stays a
// pure partial override.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("pipeline.backend", "podcastfy")
	v.SetDefault("pipeline.podcastfy.python", ".venv/bin/python")
	v.SetDefault("pipeline.podcastfy.timeout", "5m")
	v.SetDefault("pipeline.podcastfy.transcripts_dir", "data/transcripts")
	v.SetDefault("pipeline.podcastfy.transcript_max_age", "1h")
	v.SetDefault("pipeline.remote.address", "localhost:50051")
	v.SetDefault("pipeline.remote.timeout", "5m")
	v.SetDefault("pipeline.remote.insecure", true)
	v.SetDefault("pipeline.ffmpeg.binary", "ffmpeg")
	v.SetDefault("pipeline.ffmpeg.bitrate", "128k")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("podcastgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.config/podcastgen")
	}

	// Environment variables: PODCASTGEN_LOGGING_LEVEL, PODCASTGEN_PIPELINE_BACKEND, etc.
	v.SetEnvPrefix("PODCASTGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional; the built-in request defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment variables")
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${PODCASTGEN_REMOTE_TOKEN}")
	cfg.Pipeline.Remote.Token = resolveEnvRef(cfg.Pipeline.Remote.Token)

	return &cfg, nil
}

// Layer converts the file settings into a request layer.
func (c *Config) Layer() (request.Layer, error) {
	layer := request.Layer{
		PodcastName:    c.Podcast.Name,
		PodcastTagline: c.Podcast.Tagline,
		HostRole:       c.Roles.Host,
		CohostRole:     c.Roles.Cohost,
	}

	if c.TTS.Provider != nil {
		p, err := tts.ParseProvider(*c.TTS.Provider)
		if err != nil {
			return request.Layer{}, fmt.Errorf("tts.provider: %w", err)
		}
		layer.Provider = &p
	}

	if len(c.TTS.Voices) > 0 {
		layer.Voices = make(map[tts.Provider]tts.VoicePair, len(c.TTS.Voices))
		for name, pair := range c.TTS.Voices {
			p, err := tts.ParseProvider(name)
			if err != nil {
				return request.Layer{}, fmt.Errorf("tts.voices: %w", err)
			}
			layer.Voices[p] = pair
		}
	}

	if len(c.TTS.LanguageVoices) > 0 {
		layer.LanguageVoices = make(tts.LanguageVoices, len(c.TTS.LanguageVoices))
		for name, byLang := range c.TTS.LanguageVoices {
			p, err := tts.ParseProvider(name)
			if err != nil {
				return request.Layer{}, fmt.Errorf("tts.language_voices: %w", err)
			}
			table := make(map[string]tts.VoicePair, len(byLang))
			for lang, pair := range byLang {
				code, err := request.ParseLanguage(lang)
				if err != nil {
					return request.Layer{}, fmt.Errorf("tts.language_voices.%s: %w", name, err)
				}
				table[string(code)] = pair
			}
			layer.LanguageVoices[p] = table
		}
	}

	return layer, nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
// Logs go to w (stderr in the CLI) so stdout carries only the result path.
func SetupLogging(cfg LoggingConfig, w io.Writer) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
