// Package audio converts generated podcast audio with the external ffmpeg
// tool.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/nadzzz/podcastgen/internal/config"
)

// FFmpeg transcodes audio to Opus in an OGG container.
type FFmpeg struct {
	binary  string
	bitrate string
}

// New creates a transcoder from config.
func New(cfg config.FFmpegConfig) *FFmpeg {
	binary := cfg.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	bitrate := cfg.Bitrate
	if bitrate == "" {
		bitrate = "128k"
	}
	return &FFmpeg{binary: binary, bitrate: bitrate}
}

// Transcode converts src to dst, overwriting dst.
func (f *FFmpeg) Transcode(ctx context.Context, src, dst string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.binary, f.args(src, dst)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%s not found: %w", f.binary, err)
		}
		return fmt.Errorf("ffmpeg conversion failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (f *FFmpeg) args(src, dst string) []string {
	return []string{"-y", "-i", src, "-c:a", "libopus", "-b:a", f.bitrate, dst}
}
