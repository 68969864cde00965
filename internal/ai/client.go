package ai

import (
	"context"

	"VoiceCompanion/internal/service/history"
)

// Client is the reply-generation contract. Implementations must be
// interchangeable: current message, a recent-history window and a context
// summary in, one reply out.
type Client interface {
	Reply(ctx context.Context, message string, conversation []history.Message, contextSummary string) (string, error)
}
