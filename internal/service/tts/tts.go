package tts

import "context"

// Synthesizer turns text into spoken audio. Fire-and-forget from the core's
// point of view: no caller consumes anything beyond the raw audio bytes.
// language is a BCP-47 tag; empty means the provider default.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, language string) ([]byte, error)
}
