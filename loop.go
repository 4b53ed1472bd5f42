package relay

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Loop orchestrates one question/answer exchange with a Predictor and
// records both turns in the session.
type Loop struct {
	predictor Predictor
}

// NewLoop creates a new Loop with the given predictor.
func NewLoop(predictor Predictor) *Loop {
	return &Loop{predictor: predictor}
}

// RunOption configures a single Run invocation.
type RunOption func(*runConfig)

type runConfig struct {
	onSnapshot func(Snapshot)
}

// WithSnapshotHandler sets a callback that receives each snapshot during the
// run. If nil or not set, snapshots are silently discarded.
func WithSnapshotHandler(h func(Snapshot)) RunOption {
	return func(c *runConfig) {
		c.onSnapshot = h
	}
}

// Run asks question in the given session. It appends the user message,
// streams the answer, and appends the assistant message holding the last
// snapshot's text. A stream that fails after producing text still records
// the partial answer before the error is returned.
func (l *Loop) Run(ctx context.Context, session *Session, question string, opts ...RunOption) error {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	req := Request{Question: question, SessionID: session.ID}
	if err := req.Validate(); err != nil {
		return err
	}

	session.Messages = append(session.Messages, Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      question,
		CreatedAt: time.Now(),
	})
	session.UpdatedAt = time.Now()

	stream, err := l.predictor.Stream(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	text, streamErr := Drain(stream, cfg.onSnapshot)
	if streamErr == nil || text != "" {
		session.Messages = append(session.Messages, Message{
			ID:        uuid.NewString(),
			Role:      RoleAssistant,
			Text:      text,
			CreatedAt: time.Now(),
		})
		session.UpdatedAt = time.Now()
	}
	return streamErr
}

// Drain reads s to completion, forwarding each snapshot to onSnapshot when
// it is non-nil. It returns the text of the last snapshot seen and the
// first non-EOF error.
func Drain(s Stream, onSnapshot func(Snapshot)) (string, error) {
	var text string
	for {
		snap, err := s.Next()
		if err == io.EOF {
			return text, nil
		}
		if err != nil {
			return text, err
		}
		text = snap.Text
		if onSnapshot != nil {
			onSnapshot(snap)
		}
	}
}
