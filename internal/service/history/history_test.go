package history

import (
	"errors"
	"fmt"
	"testing"

	"VoiceCompanion/internal/adapter/kvstore"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T, kv kvstore.Store) *Store {
	t.Helper()
	return New(kv, "client/history", DefaultMax, zaptest.NewLogger(t).Sugar())
}

func TestAppend_CapsAtMax(t *testing.T) {
	s := newTestStore(t, kvstore.NewMemoryStore())
	for i := 0; i < 30; i++ {
		s.Append(Message{Role: RoleUser, Content: fmt.Sprintf("msg-%d", i), Timestamp: int64(i)})
	}

	got := s.Read()
	require.Len(t, got, DefaultMax)
	require.Equal(t, "msg-10", got[0].Content)
	require.Equal(t, "msg-29", got[len(got)-1].Content)
}

func TestAppend_KeepsInsertionOrderBelowCap(t *testing.T) {
	s := newTestStore(t, kvstore.NewMemoryStore())
	for i := 0; i < 7; i++ {
		s.Append(Message{Role: RoleUser, Content: fmt.Sprintf("msg-%d", i)})
	}
	got := s.Read()
	require.Len(t, got, 7)
	for i, m := range got {
		require.Equal(t, fmt.Sprintf("msg-%d", i), m.Content)
	}
}

// 25 user/assistant pairs: the store must retain exactly the last 20
// messages, so the oldest survivor is the user message of pair 21.
func TestAppend_FiftyMessageScenario(t *testing.T) {
	s := newTestStore(t, kvstore.NewMemoryStore())
	for pair := 1; pair <= 25; pair++ {
		s.Append(Message{Role: RoleUser, Content: fmt.Sprintf("question-%d", pair)})
		s.Append(Message{Role: RoleAssistant, Content: fmt.Sprintf("answer-%d", pair)})
	}

	got := s.Read()
	require.Len(t, got, 20)
	require.Equal(t, RoleUser, got[0].Role)
	require.Equal(t, "question-21", got[0].Content)
	require.Equal(t, "answer-25", got[19].Content)
}

func TestRead_SurvivesRestart(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	s := newTestStore(t, kv)
	s.Append(Message{Role: RoleUser, Content: "안녕하세요", Timestamp: 1700000000000})

	reopened := newTestStore(t, kv)
	got := reopened.Read()
	require.Len(t, got, 1)
	require.Equal(t, Message{Role: RoleUser, Content: "안녕하세요", Timestamp: 1700000000000}, got[0])
}

func TestRead_CorruptDataIsAbsence(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	require.NoError(t, kv.Set("client/history", "{not json"))
	s := newTestStore(t, kv)
	require.Empty(t, s.Read())
}

func TestClear_ThenReadIsEmpty(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	s := newTestStore(t, kv)
	s.Append(Message{Role: RoleUser, Content: "a"})
	s.Append(Message{Role: RoleAssistant, Content: "b"})

	s.Clear()
	require.Empty(t, s.Read())

	// The stored key is gone too.
	_, ok := kv.Get("client/history")
	require.False(t, ok)
}

func TestWindow(t *testing.T) {
	s := newTestStore(t, kvstore.NewMemoryStore())
	for i := 0; i < 5; i++ {
		s.Append(Message{Role: RoleUser, Content: fmt.Sprintf("msg-%d", i)})
	}

	got := s.Window(3)
	require.Len(t, got, 3)
	require.Equal(t, "msg-2", got[0].Content)

	require.Len(t, s.Window(10), 5)
}

type failingStore struct{ kvstore.Store }

func (failingStore) Set(string, string) error { return errors.New("quota exceeded") }

// A persistence failure must not surface: the in-memory log stays
// authoritative for the session.
func TestAppend_SwallowsWriteFailure(t *testing.T) {
	s := newTestStore(t, failingStore{kvstore.NewMemoryStore()})
	s.Append(Message{Role: RoleUser, Content: "hello"})

	got := s.Read()
	require.Len(t, got, 1)
	require.Equal(t, "hello", got[0].Content)
}
