package tts

import "context"

// Noop is the Synthesizer for disabled TTS and tests.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) Synthesize(_ context.Context, _ string, _ string) ([]byte, error) {
	return nil, nil
}
