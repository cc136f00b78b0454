// Podcastgen turns web pages, text and PDFs into a two-speaker podcast.
//
// It resolves the request from built-in defaults, the config file and the
// command line, checks credentials before any paid call, hands the request to
// the generation backend and prints the path of the resulting OGG file.
//
// Usage:
//
//	podcastgen --url https://example.com/article [flags]
//	podcastgen --pdf paper.pdf --lang de --elevenlabs -o paper.ogg
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nadzzz/podcastgen/internal/audio"
	"github.com/nadzzz/podcastgen/internal/config"
	"github.com/nadzzz/podcastgen/internal/env"
	"github.com/nadzzz/podcastgen/internal/pipeline"
	"github.com/nadzzz/podcastgen/internal/pipeline/podcastfy"
	"github.com/nadzzz/podcastgen/internal/pipeline/remote"
	"github.com/nadzzz/podcastgen/internal/request"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultEnvFile = ".env"

type options struct {
	configFile string
	envFile    string
	input      request.Input
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "podcastgen:", err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "podcastgen",
		Short: "Generate a two-speaker podcast from URLs, text or a PDF",
		Long: `podcastgen extracts content from the given sources, writes a dialogue
between a host and a co-host, synthesizes it and prints the path of the
resulting audio file.

Settings are read from podcastgen.yaml (./, ./config or
$HOME/.config/podcastgen), PODCASTGEN_* environment variables and flags,
with flags taking precedence.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&opts.input.URLs, "url", nil, "web page to include (repeatable)")
	f.StringVar(&opts.input.Text, "text", "", "raw text to include")
	f.StringVar(&opts.input.PDF, "pdf", "", "PDF file to include")
	f.StringVar(&opts.input.Language, "lang", "", "podcast language: en, de, fr, es (default: detect from sources)")
	f.String("podcast-name", "", `show name; "" disables show branding`)
	f.String("podcast-tagline", "", "show tagline")
	f.String("host-name", "", "host's name")
	f.String("cohost-name", "", "co-host's name")
	f.BoolVar(&opts.input.ElevenLabs, "elevenlabs", false, "use ElevenLabs for speech synthesis")
	f.StringVar(&opts.input.HostVoice, "host-voice", "", "host voice, overrides language defaults")
	f.StringVar(&opts.input.CohostVoice, "cohost-voice", "", "co-host voice, overrides language defaults")
	f.StringVar(&opts.input.Voice, "voice", "", "voice for both speakers")
	f.StringVarP(&opts.input.Output, "output", "o", "", "output file (default: a temporary .ogg path)")
	f.StringVar(&opts.configFile, "config", "", "path to config file")
	f.StringVar(&opts.envFile, "env-file", defaultEnvFile, "dotenv file with API keys")
	_ = f.MarkHidden("voice")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	config.SetupLogging(cfg.Logging, cmd.ErrOrStderr())
	slog.Debug("podcastgen starting", "version", version, "backend", cfg.Pipeline.Backend)

	// The default dotenv file is optional; one named explicitly must exist.
	dotenv, err := env.ReadFile(opts.envFile, !cmd.Flags().Changed("env-file"))
	if err != nil {
		return err
	}

	fileLayer, err := cfg.Layer()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	resolver := request.NewResolver(env.Chain{env.OS{}, dotenv})
	req, err := resolver.Resolve(opts.input, fileLayer, cliLayer(cmd.Flags()))
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, dotenv)
	if err != nil {
		return err
	}
	defer gen.Close()

	path, err := pipeline.NewRunner(gen, audio.New(cfg.Pipeline.FFmpeg)).Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// cliLayer builds the highest-precedence layer from the flags the user
// actually passed, so --podcast-name "" is kept as an explicit empty value.
func cliLayer(fs *pflag.FlagSet) request.Layer {
	str := func(name string) *string {
		if !fs.Changed(name) {
			return nil
		}
		v, _ := fs.GetString(name)
		return &v
	}

	return request.Layer{
		PodcastName:    str("podcast-name"),
		PodcastTagline: str("podcast-tagline"),
		HostName:       str("host-name"),
		CohostName:     str("cohost-name"),
	}
}

func newGenerator(cfg *config.Config, dotenv env.Map) (pipeline.Generator, error) {
	switch cfg.Pipeline.Backend {
	case "podcastfy":
		slog.Debug("using podcastfy backend", "python", cfg.Pipeline.Podcastfy.Python)
		return podcastfy.New(cfg.Pipeline.Podcastfy, cfg.Conversation, podcastfy.WithEnv(env.Environ(dotenv))), nil
	case "remote":
		slog.Debug("using remote backend", "address", cfg.Pipeline.Remote.Address)
		return remote.New(cfg.Pipeline.Remote)
	default:
		return nil, fmt.Errorf("unknown pipeline backend %q", cfg.Pipeline.Backend)
	}
}
