// Package history is the bounded, persisted log of one client's
// conversation with the companion.
package history

import (
	"encoding/json"
	"sync"

	"VoiceCompanion/internal/adapter/kvstore"

	"go.uber.org/zap"
)

// DefaultMax is the history cap when none is configured.
const DefaultMax = 20

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversational turn. Immutable once appended.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix millis
}

// Store is a capacity-bounded FIFO log of messages backed by one storage
// key. Writes fail soft: a persistence error is logged and the in-memory
// state stays authoritative for the session.
type Store struct {
	kv     kvstore.Store
	key    string
	max    int
	logger *zap.SugaredLogger

	mu       sync.Mutex
	messages []Message
	loaded   bool
}

func New(kv kvstore.Store, key string, max int, logger *zap.SugaredLogger) *Store {
	if max <= 0 {
		max = DefaultMax
	}
	return &Store{kv: kv, key: key, max: max, logger: logger}
}

// Append adds a message to the end of the log, evicting the oldest entries
// past the cap, and persists the result.
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	s.messages = append(s.messages, msg)
	if len(s.messages) > s.max {
		s.messages = s.messages[len(s.messages)-s.max:]
	}
	s.persist()
}

// Read returns the full stored history, oldest first. Absent or corrupt
// stored data yields an empty slice, never an error.
func (s *Store) Read() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Window returns the most recent n messages (all of them when fewer exist).
func (s *Store) Window(n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	msgs := s.messages
	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Clear drops the in-memory log and deletes the stored key.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.loaded = true
	if err := s.kv.Delete(s.key); err != nil {
		s.logger.Warnw("failed to delete history", "key", s.key, "error", err)
	}
}

// load lazily pulls the stored log into memory. Undecodable data is treated
// as absence.
func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	raw, ok := s.kv.Get(s.key)
	if !ok {
		return
	}
	var msgs []Message
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		s.logger.Warnw("stored history is unreadable, starting empty", "key", s.key, "error", err)
		return
	}
	if len(msgs) > s.max {
		msgs = msgs[len(msgs)-s.max:]
	}
	s.messages = msgs
}

func (s *Store) persist() {
	b, err := json.Marshal(s.messages)
	if err != nil {
		s.logger.Warnw("failed to encode history", "key", s.key, "error", err)
		return
	}
	if err := s.kv.Set(s.key, string(b)); err != nil {
		s.logger.Warnw("failed to persist history, keeping it in memory", "key", s.key, "error", err)
	}
}
