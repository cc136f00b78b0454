package podcastfy

import (
	"github.com/nadzzz/podcastgen/internal/request"
)

// podcastfy renders "Welcome to {name} - {tagline}" into its prompt, so an
// unbranded show gets a name that reads naturally.
const (
	unbrandedName    = "the show"
	unbrandedTagline = "Let's get into it"
)

// Conversation builds the podcastfy conversation config for req on top of
// the passthrough settings in base. base is not modified.
func Conversation(base map[string]any, req *request.GenerationRequest) map[string]any {
	conv := deepCopy(base)

	name, tagline := req.Podcast.Name, req.Podcast.Tagline
	if name == "" {
		name, tagline = unbrandedName, unbrandedTagline
	}

	overrides := map[string]any{
		"podcast_name":    name,
		"podcast_tagline": tagline,
		"roles_person1":   req.Host.Describe(),
		"roles_person2":   req.Cohost.Describe(),
		"tts_model":       req.Provider.String(),
		"text_to_speech": map[string]any{
			req.Provider.String(): map[string]any{
				"default_voices": map[string]any{
					"question": req.Host.Voice,
					"answer":   req.Cohost.Voice,
				},
			},
		},
	}
	if !req.Language.IsAuto() {
		overrides["output_language"] = req.Language.Name()
	}

	return deepMerge(conv, overrides)
}

// deepMerge merges override into base recursively and returns base.
func deepMerge(base, override map[string]any) map[string]any {
	if base == nil {
		base = make(map[string]any, len(override))
	}
	for k, v := range override {
		if vm, ok := v.(map[string]any); ok {
			if bm, ok := base[k].(map[string]any); ok {
				base[k] = deepMerge(bm, vm)
				continue
			}
			base[k] = deepMerge(nil, vm)
			continue
		}
		base[k] = v
	}
	return base
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopy(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
