package ai

import (
	"context"

	"VoiceCompanion/internal/service/history"
)

// StubClient answers without any network call. Used for offline runs and
// tests.
type StubClient struct{}

func NewStubClient() *StubClient { return &StubClient{} }

func (c *StubClient) Reply(_ context.Context, _ string, _ []history.Message, _ string) (string, error) {
	return "그렇군요. 조금 더 이야기해 주세요.", nil
}
