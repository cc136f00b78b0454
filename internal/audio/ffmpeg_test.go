package audio

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nadzzz/podcastgen/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	f := New(config.FFmpegConfig{})

	assert.Equal(t, "ffmpeg", f.binary)
	assert.Equal(t,
		[]string{"-y", "-i", "in.mp3", "-c:a", "libopus", "-b:a", "128k", "out.ogg"},
		f.args("in.mp3", "out.ogg"))

	f = New(config.FFmpegConfig{Binary: "/opt/ffmpeg", Bitrate: "64k"})
	assert.Equal(t, "/opt/ffmpeg", f.binary)
	assert.Contains(t, f.args("a", "b"), "64k")
}

func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestTranscode(t *testing.T) {
	// The fake copies its input (arg 3) to its output (last arg).
	bin := fakeBinary(t, `eval last=\${$#}; cp "$3" "$last"`+"\n")
	dir := t.TempDir()
	src := filepath.Join(dir, "in.mp3")
	dst := filepath.Join(dir, "out.ogg")
	require.NoError(t, os.WriteFile(src, []byte("audio"), 0o600))

	err := New(config.FFmpegConfig{Binary: bin}).Transcode(context.Background(), src, dst)
	require.NoError(t, err)
	assert.FileExists(t, dst)
}

func TestTranscodeFailure(t *testing.T) {
	bin := fakeBinary(t, "echo 'Unknown encoder libopus' >&2\nexit 1\n")

	err := New(config.FFmpegConfig{Binary: bin}).Transcode(context.Background(), "a.mp3", "b.ogg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown encoder libopus")
}

func TestTranscodeMissingBinary(t *testing.T) {
	err := New(config.FFmpegConfig{Binary: "podcastgen-no-such-ffmpeg"}).Transcode(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
