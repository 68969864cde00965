// Package profile derives a slow-changing user profile from recent
// conversation text and compresses it, together with the latest exchanges,
// into a short context string for prompt injection.
package profile

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"VoiceCompanion/internal/adapter/kvstore"
	"VoiceCompanion/internal/service/history"

	"go.uber.org/zap"
)

const (
	learnWindow     = 10 // messages folded into the keyword blob
	concernScan     = 3  // most recent messages searched for the concern excerpt
	excerptLen      = 50 // characters kept from a concern message
	maxConcerns     = 5  // concerns retained, oldest dropped first
	summaryConcerns = 2  // concerns quoted in the context summary
	summaryMessages = 6  // messages quoted in the context summary
)

// Profile is what the companion remembers about one user across sessions.
type Profile struct {
	Preferences       []string `json:"preferences"`
	Topics            []string `json:"topics"`
	Concerns          []string `json:"concerns"`
	LastActive        int64    `json:"lastActive"` // unix millis
	ConversationCount int      `json:"conversationCount"`
}

// Learner owns one storage key holding a Profile and updates it from
// conversation history by keyword matching. Deliberately cheap: the output
// is a bounded hint list for prompt conditioning, not a classification.
type Learner struct {
	kv              kvstore.Store
	key             string
	logger          *zap.SugaredLogger
	topics          []TopicRule
	concernTriggers []string
	now             func() time.Time

	mu     sync.Mutex
	cached Profile
	loaded bool
}

func New(kv kvstore.Store, key string, logger *zap.SugaredLogger) *Learner {
	return &Learner{
		kv:              kv,
		key:             key,
		logger:          logger,
		topics:          DefaultTopics,
		concernTriggers: DefaultConcernTriggers,
		now:             time.Now,
	}
}

// NewWithRules builds a Learner with custom keyword tables.
func NewWithRules(kv kvstore.Store, key string, logger *zap.SugaredLogger, topics []TopicRule, concernTriggers []string) *Learner {
	l := New(kv, key, logger)
	l.topics = topics
	l.concernTriggers = concernTriggers
	return l
}

// Learn folds the most recent messages into the stored profile: topic
// labels from the keyword table, a concern excerpt on negative affect, and
// the activity counters. Persist failures are logged and swallowed.
func (l *Learner) Learn(msgs []history.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := lastN(msgs, learnWindow)
	var sb strings.Builder
	for _, m := range recent {
		sb.WriteString(strings.ToLower(m.Content))
		sb.WriteByte(' ')
	}
	blob := sb.String()

	p := l.read()

	for _, rule := range l.topics {
		if !containsAny(blob, rule.Triggers) {
			continue
		}
		if !containsString(p.Topics, rule.Label) {
			p.Topics = append(p.Topics, rule.Label)
		}
	}

	if containsAny(blob, l.concernTriggers) {
		if excerpt := l.concernExcerpt(recent); excerpt != "" && !containsString(p.Concerns, excerpt) {
			p.Concerns = append(p.Concerns, excerpt)
			if len(p.Concerns) > maxConcerns {
				p.Concerns = p.Concerns[len(p.Concerns)-maxConcerns:]
			}
		}
	}

	p.LastActive = l.now().UnixMilli()
	p.ConversationCount++
	l.persist(p)
}

// Profile returns the stored profile, or a zero-value default when nothing
// usable is stored.
func (l *Learner) Profile() Profile {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.read()
	p.Preferences = append([]string(nil), p.Preferences...)
	p.Topics = append([]string(nil), p.Topics...)
	p.Concerns = append([]string(nil), p.Concerns...)
	return p
}

// ContextSummary builds the prompt-context string from the stored profile
// and the supplied history. Empty when there is nothing to say.
func (l *Learner) ContextSummary(msgs []history.Message) string {
	p := l.Profile()
	if len(p.Topics) == 0 && len(msgs) == 0 {
		return ""
	}

	parts := make([]string, 0, 3)
	if len(p.Topics) > 0 {
		parts = append(parts, "User has mentioned these topics: "+strings.Join(p.Topics, ", "))
	}
	if len(p.Concerns) > 0 {
		parts = append(parts, "Recent concerns: "+strings.Join(lastNStrings(p.Concerns, summaryConcerns), "; "))
	}
	if len(msgs) > 0 {
		recent := lastN(msgs, summaryMessages)
		lines := make([]string, 0, len(recent))
		for _, m := range recent {
			lines = append(lines, m.Role+": "+m.Content)
		}
		parts = append(parts, "Recent conversation context: "+strings.Join(lines, " | "))
	}
	return strings.Join(parts, ". ")
}

// concernExcerpt finds the most recent of the last few messages containing
// a concern trigger and returns its head as the remembered excerpt.
func (l *Learner) concernExcerpt(recent []history.Message) string {
	scan := lastN(recent, concernScan)
	for i := len(scan) - 1; i >= 0; i-- {
		if containsAny(strings.ToLower(scan[i].Content), l.concernTriggers) {
			return truncateRunes(scan[i].Content, excerptLen)
		}
	}
	return ""
}

// read returns the session's profile, loading it from storage on first
// access. Undecodable stored data is treated as absence.
func (l *Learner) read() Profile {
	if l.loaded {
		return l.cached
	}
	l.loaded = true
	l.cached = Profile{LastActive: l.now().UnixMilli()}
	raw, ok := l.kv.Get(l.key)
	if !ok {
		return l.cached
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		l.logger.Warnw("stored profile is unreadable, starting fresh", "key", l.key, "error", err)
		return l.cached
	}
	l.cached = p
	return l.cached
}

// persist writes the profile through to storage. The in-memory copy stays
// authoritative for the session even when the write fails.
func (l *Learner) persist(p Profile) {
	l.cached = p
	b, err := json.Marshal(p)
	if err != nil {
		l.logger.Warnw("failed to encode profile", "key", l.key, "error", err)
		return
	}
	if err := l.kv.Set(l.key, string(b)); err != nil {
		l.logger.Warnw("failed to persist profile, keeping it in memory", "key", l.key, "error", err)
	}
}

func lastN(msgs []history.Message, n int) []history.Message {
	if n > 0 && len(msgs) > n {
		return msgs[len(msgs)-n:]
	}
	return msgs
}

func lastNStrings(ss []string, n int) []string {
	if n > 0 && len(ss) > n {
		return ss[len(ss)-n:]
	}
	return ss
}

func containsAny(blob string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(blob, t) {
			return true
		}
	}
	return false
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
