package podcastfy

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/nadzzz/podcastgen/internal/config"
	"github.com/nadzzz/podcastgen/internal/request"
	"github.com/nadzzz/podcastgen/internal/tts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleRequest() *request.GenerationRequest {
	return &request.GenerationRequest{
		Sources: []request.Source{
			{Kind: request.SourceURL, Value: "https://a.com"},
			{Kind: request.SourceFile, Value: "/docs/paper.pdf"},
			{Kind: request.SourceText, Value: "notes"},
		},
		Language: "de",
		Podcast:  request.Podcast{Name: "Deep Dive", Tagline: "Daily"},
		Host:     request.Speaker{Role: "host", Name: "Alex", Voice: "Otto"},
		Cohost:   request.Speaker{Role: "co-host", Name: "co-host", Voice: "Greta"},
		Provider: tts.ProviderElevenLabs,
	}
}

func TestConversation(t *testing.T) {
	base := map[string]any{
		"word_count": 1200,
		"text_to_speech": map[string]any{
			"audio_format": "mp3",
			"elevenlabs": map[string]any{
				"model": "eleven_multilingual_v2",
			},
		},
	}

	conv := Conversation(base, sampleRequest())

	assert.Equal(t, "Deep Dive", conv["podcast_name"])
	assert.Equal(t, "Daily", conv["podcast_tagline"])
	assert.Equal(t, "German", conv["output_language"])
	assert.Equal(t, "host named Alex", conv["roles_person1"])
	assert.Equal(t, "co-host", conv["roles_person2"])
	assert.Equal(t, "elevenlabs", conv["tts_model"])
	assert.Equal(t, 1200, conv["word_count"])

	ttsCfg := conv["text_to_speech"].(map[string]any)
	assert.Equal(t, "mp3", ttsCfg["audio_format"])
	el := ttsCfg["elevenlabs"].(map[string]any)
	assert.Equal(t, "eleven_multilingual_v2", el["model"])
	assert.Equal(t, map[string]any{"question": "Otto", "answer": "Greta"}, el["default_voices"])

	// base must be untouched
	_, touched := base["text_to_speech"].(map[string]any)["elevenlabs"].(map[string]any)["default_voices"]
	assert.False(t, touched)
	assert.NotContains(t, base, "podcast_name")
}

func TestConversationUnbrandedAndAuto(t *testing.T) {
	req := sampleRequest()
	req.Podcast = request.Podcast{Name: "", Tagline: "ignored"}
	req.Language = request.LanguageAuto

	conv := Conversation(nil, req)

	assert.Equal(t, "the show", conv["podcast_name"])
	assert.Equal(t, "Let's get into it", conv["podcast_tagline"])
	assert.NotContains(t, conv, "output_language")
}

func TestNewJob(t *testing.T) {
	j := newJob(sampleRequest())

	assert.Equal(t, []string{"https://a.com", "/docs/paper.pdf"}, j.URLs)
	assert.Equal(t, "notes", j.Text)
	assert.Equal(t, "elevenlabs", j.TTSModel)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		stdout  string
		want    string
		wantErr bool
	}{
		{stdout: "/data/audio/podcast_1.mp3\n", want: "/data/audio/podcast_1.mp3"},
		{stdout: "UserWarning: something\n./data/audio/p.mp3\n\n", want: "data/audio/p.mp3"},
		{stdout: "", wantErr: true},
		{stdout: "\n  \n", wantErr: true},
	}

	for _, tt := range tests {
		got, err := outputPath(tt.stdout)
		if tt.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRemoveOlderThan(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	write := func(name string, age time.Duration) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
		require.NoError(t, os.Chtimes(path, now.Add(-age), now.Add(-age)))
		return path
	}

	old := write("transcript_old.txt", 2*time.Hour)
	fresh := write("transcript_new.txt", time.Minute)
	other := write("notes_old.txt", 2*time.Hour)

	removed, err := removeOlderThan(dir, transcriptPattern, time.Hour, now)
	require.NoError(t, err)

	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)

	removed, err = removeOlderThan(filepath.Join(dir, "missing"), transcriptPattern, time.Hour, now)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

// fakePython writes a shell script standing in for the venv interpreter.
// It receives: -c <script> <config.yaml> <job.json>.
func fakePython(t *testing.T, dir, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(dir, "python")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	mp3 := filepath.Join(dir, "podcast_abc.mp3")
	python := fakePython(t, dir, `
cp "$3" "`+dir+`/seen.yaml"
printf '%s' "$4" > "`+dir+`/seen.json"
touch "`+mp3+`"
echo "FutureWarning: noise"
echo "`+mp3+`"
`)

	transcripts := filepath.Join(dir, "transcripts")
	require.NoError(t, os.MkdirAll(transcripts, 0o755))
	stale := filepath.Join(transcripts, "transcript_1.txt")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o600))
	past := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	g := New(config.PodcastfyConfig{
		Python:           python,
		Timeout:          10 * time.Second,
		TranscriptsDir:   transcripts,
		TranscriptMaxAge: time.Hour,
	}, map[string]any{"word_count": 800})

	art, err := g.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, mp3, art.Path)
	assert.Equal(t, "mp3", art.Format)
	assert.NoFileExists(t, stale)

	raw, err := os.ReadFile(filepath.Join(dir, "seen.yaml"))
	require.NoError(t, err)
	var conv map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &conv))
	assert.Equal(t, "German", conv["output_language"])
	assert.Equal(t, 800, conv["word_count"])

	raw, err = os.ReadFile(filepath.Join(dir, "seen.json"))
	require.NoError(t, err)
	var j job
	require.NoError(t, json.Unmarshal(raw, &j))
	assert.Equal(t, "elevenlabs", j.TTSModel)
	assert.Len(t, j.URLs, 2)
}

func TestGenerateEnv(t *testing.T) {
	dir := t.TempDir()
	mp3 := filepath.Join(dir, "p.mp3")
	python := fakePython(t, dir, `
printf '%s' "$ELEVENLABS_API_KEY" > "`+dir+`/key"
touch "`+mp3+`"
echo "`+mp3+`"
`)

	g := New(config.PodcastfyConfig{Python: python}, nil, WithEnv(append(os.Environ(), "ELEVENLABS_API_KEY=from-dotenv")))
	_, err := g.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)

	key, err := os.ReadFile(filepath.Join(dir, "key"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", string(key))
}

func TestGenerateFailure(t *testing.T) {
	dir := t.TempDir()
	python := fakePython(t, dir, "echo 'Generation failed: 401 Unauthorized' >&2\nexit 1\n")

	_, err := New(config.PodcastfyConfig{Python: python}, nil).Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 Unauthorized")
}

func TestGenerateMissingOutput(t *testing.T) {
	dir := t.TempDir()
	python := fakePython(t, dir, "echo '"+filepath.Join(dir, "never.mp3")+"'\n")

	_, err := New(config.PodcastfyConfig{Python: python}, nil).Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output file not found")
}

func TestGenerateTimeout(t *testing.T) {
	dir := t.TempDir()
	python := fakePython(t, dir, "exec sleep 5\n")

	_, err := New(config.PodcastfyConfig{Python: python, Timeout: 100 * time.Millisecond}, nil).
		Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestGenerateMissingInterpreter(t *testing.T) {
	g := New(config.PodcastfyConfig{Python: filepath.Join(t.TempDir(), "no-python")}, nil)

	_, err := g.Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "venv")
}
