// Package companion orchestrates one conversational turn: remember the
// transcript, ask the reply service, remember the answer, learn from it.
package companion

import (
	"context"
	"time"

	"VoiceCompanion/internal/service/history"
	"VoiceCompanion/internal/service/profile"

	"go.uber.org/zap"
)

// Replier is the external reply-generation collaborator.
type Replier interface {
	Reply(ctx context.Context, message string, conversation []history.Message, contextSummary string) (string, error)
}

// Session bundles one client's memory: its bounded history log and its
// learned profile.
type Session struct {
	History *history.Store
	Profile *profile.Learner
}

type Companion struct {
	replier     Replier
	replyWindow int
	apology     string
	logger      *zap.SugaredLogger
	now         func() time.Time
}

// New creates the orchestration service. apology is the localized text used
// as the assistant turn when the reply service fails.
func New(replier Replier, replyWindow int, apology string, logger *zap.SugaredLogger) *Companion {
	if replyWindow <= 0 {
		replyWindow = 10
	}
	return &Companion{
		replier:     replier,
		replyWindow: replyWindow,
		apology:     apology,
		logger:      logger,
		now:         time.Now,
	}
}

// Respond runs the full turn for one transcript. A reply-service failure is
// not an error to the caller: the apology becomes the reply and is appended
// to history like any other assistant message, so the failure itself stays
// part of the remembered conversation.
func (c *Companion) Respond(ctx context.Context, sess *Session, text string) string {
	sess.History.Append(history.Message{
		Role:      history.RoleUser,
		Content:   text,
		Timestamp: c.now().UnixMilli(),
	})

	window := sess.History.Window(c.replyWindow)
	summary := sess.Profile.ContextSummary(window)

	reply, err := c.replier.Reply(ctx, text, window, summary)
	if err != nil {
		c.logger.Errorw("reply service failed", "error", err)
		reply = c.apology
	}

	sess.History.Append(history.Message{
		Role:      history.RoleAssistant,
		Content:   reply,
		Timestamp: c.now().UnixMilli(),
	})

	sess.Profile.Learn(sess.History.Read())
	return reply
}
