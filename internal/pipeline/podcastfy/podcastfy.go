// Package podcastfy implements the pipeline Generator by running the
// podcastfy Python library in a subprocess.
//
// The fully merged conversation config is written to a temporary YAML file
// and a small inline runner calls podcastfy.client.generate_podcast. The
// runner prints the produced MP3 path as the last line of stdout; anything
// before it (library warnings) is ignored.
package podcastfy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nadzzz/podcastgen/internal/config"
	"github.com/nadzzz/podcastgen/internal/pipeline"
	"github.com/nadzzz/podcastgen/internal/request"
)

const runnerScript = `
import json
import sys
import yaml
from podcastfy.client import generate_podcast

with open(sys.argv[1]) as f:
    config = yaml.safe_load(f)
job = json.loads(sys.argv[2])

try:
    audio_file = generate_podcast(
        urls=job.get("urls") or None,
        text=job.get("text") or None,
        conversation_config=config,
        tts_model=job["tts_model"],
    )
except Exception as e:
    print(f"Generation failed: {e}", file=sys.stderr)
    sys.exit(1)

print(audio_file)
`

const transcriptPattern = "transcript_*.txt"

var _ pipeline.Generator = (*Generator)(nil)

// job is the per-run argument passed to the runner script.
type job struct {
	URLs     []string `json:"urls,omitempty"`
	Text     string   `json:"text,omitempty"`
	TTSModel string   `json:"tts_model"`
}

// Generator runs podcastfy through a Python interpreter.
type Generator struct {
	python           string
	timeout          time.Duration
	transcriptsDir   string
	transcriptMaxAge time.Duration
	conversation     map[string]any
	env              []string
}

// Option configures a Generator.
type Option func(*Generator)

// WithEnv sets the subprocess environment ("KEY=value" entries). By default
// the process environment is inherited.
func WithEnv(env []string) Option {
	return func(g *Generator) { g.env = env }
}

// New creates a podcastfy generator. conversation holds the passthrough
// settings from the config file.
func New(cfg config.PodcastfyConfig, conversation map[string]any, opts ...Option) *Generator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	g := &Generator{
		python:           cfg.Python,
		timeout:          timeout,
		transcriptsDir:   cfg.TranscriptsDir,
		transcriptMaxAge: cfg.TranscriptMaxAge,
		conversation:     conversation,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the backend identifier.
func (g *Generator) Name() string { return "podcastfy" }

// Generate runs podcastfy and returns the MP3 it produced.
func (g *Generator) Generate(ctx context.Context, req *request.GenerationRequest) (*pipeline.Artifact, error) {
	if _, err := exec.LookPath(g.python); err != nil {
		return nil, fmt.Errorf("python interpreter %s unavailable (is the podcastfy venv installed?): %w", g.python, err)
	}

	cfgPath, err := g.writeConversation(req)
	if err != nil {
		return nil, err
	}
	defer os.Remove(cfgPath)

	jobJSON, err := json.Marshal(newJob(req))
	if err != nil {
		return nil, fmt.Errorf("marshalling job: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.python, "-c", runnerScript, cfgPath, string(jobJSON))
	cmd.Env = g.env
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running podcastfy", "python", g.python, "config", cfgPath, "timeout", g.timeout)
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("podcastfy timed out (%s limit)", g.timeout)
		}
		return nil, fmt.Errorf("podcastfy failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	path, err := outputPath(stdout.String())
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("output file not found: %w", err)
	}

	g.cleanupTranscripts()

	return &pipeline.Artifact{
		Path:   path,
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}, nil
}

// Close is a no-op; each generation runs its own process.
func (g *Generator) Close() error { return nil }

func (g *Generator) writeConversation(req *request.GenerationRequest) (string, error) {
	data, err := yaml.Marshal(Conversation(g.conversation, req))
	if err != nil {
		return "", fmt.Errorf("marshalling conversation config: %w", err)
	}

	f, err := os.CreateTemp("", "podcastgen-conversation-*.yaml")
	if err != nil {
		return "", fmt.Errorf("creating conversation config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing conversation config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing conversation config: %w", err)
	}
	return f.Name(), nil
}

func (g *Generator) cleanupTranscripts() {
	if g.transcriptsDir == "" || g.transcriptMaxAge <= 0 {
		return
	}
	removed, err := removeOlderThan(g.transcriptsDir, transcriptPattern, g.transcriptMaxAge, time.Now())
	if err != nil {
		slog.Warn("transcript cleanup failed", "dir", g.transcriptsDir, "error", err)
		return
	}
	if removed > 0 {
		slog.Info("cleaned up old transcripts", "count", removed)
	}
}

// newJob maps sources onto podcastfy's inputs: file paths are accepted as
// URLs, text sources are joined.
func newJob(req *request.GenerationRequest) job {
	j := job{TTSModel: req.Provider.String()}
	var texts []string
	for _, s := range req.Sources {
		switch s.Kind {
		case request.SourceURL, request.SourceFile:
			j.URLs = append(j.URLs, s.Value)
		case request.SourceText:
			texts = append(texts, s.Value)
		}
	}
	j.Text = strings.Join(texts, "\n\n")
	return j
}

// outputPath extracts the audio path from the last non-empty stdout line.
func outputPath(stdout string) (string, error) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return "", errors.New("podcastfy produced no output path")
	}
	return strings.TrimPrefix(last, "./"), nil
}
