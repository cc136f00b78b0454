package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nadzzz/podcastgen/internal/request"
)

// Runner drives one generation: generate, then transcode or move the
// artifact to the request's output path.
type Runner struct {
	generator  Generator
	transcoder Transcoder
}

// NewRunner creates a Runner.
func NewRunner(gen Generator, tc Transcoder) *Runner {
	return &Runner{generator: gen, transcoder: tc}
}

// Run returns the path of the final audio file. If transcoding fails the
// untranscoded artifact path is returned instead, with a warning.
func (r *Runner) Run(ctx context.Context, req *request.GenerationRequest) (string, error) {
	start := time.Now()
	logger := slog.With("backend", r.generator.Name(), "provider", req.Provider, "language", req.Language)

	logger.Info("generating podcast", "sources", len(req.Sources))
	art, err := r.generator.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	logger.Info("generation complete", "artifact", art.Path, "format", art.Format, "duration", time.Since(start))

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	if sameFormat(art.Format, req.OutputPath) {
		if art.Path == req.OutputPath {
			return art.Path, nil
		}
		if err := moveFile(art.Path, req.OutputPath); err != nil {
			return "", fmt.Errorf("placing output: %w", err)
		}
		return req.OutputPath, nil
	}

	logger.Info("converting audio", "from", art.Format, "to", filepath.Ext(req.OutputPath))
	if err := r.transcoder.Transcode(ctx, art.Path, req.OutputPath); err != nil {
		logger.Warn("conversion failed, using original audio", "error", err, "path", art.Path)
		return art.Path, nil
	}

	if err := os.Remove(art.Path); err != nil {
		logger.Debug("removing intermediate audio", "path", art.Path, "error", err)
	}

	logger.Info("podcast ready", "path", req.OutputPath, "duration", time.Since(start))
	return req.OutputPath, nil
}

// Close releases the generator.
func (r *Runner) Close() error {
	return r.generator.Close()
}

func sameFormat(format, path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return ext != "" && ext == strings.ToLower(format)
}

// moveFile renames src to dst, copying when they live on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		return errors.Join(err, out.Close())
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
