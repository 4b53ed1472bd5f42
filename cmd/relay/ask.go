package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/relay"
	relayjson "github.com/fwojciec/relay/json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (a *app) newAskCmd() *cobra.Command {
	var noStream bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.stderr, a.cfg.LogLevel)
			if err != nil {
				return err
			}
			client, err := a.client(logger)
			if err != nil {
				return err
			}
			session, err := relayjson.LoadOrCreate(a.cfg.SessionPath)
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}

			question := strings.Join(args, " ")
			ctx := cmd.Context()
			var runErr error
			if noStream {
				var text string
				text, runErr = client.Predict(ctx, relay.Request{Question: question, SessionID: session.ID})
				if runErr == nil {
					fmt.Fprintln(a.stdout, text)
					recordExchange(&session, question, text)
				}
			} else {
				// Redirected output gets the final answer once.
				var opts []relay.RunOption
				dw := &deltaWriter{w: a.stdout}
				if isTerminal(a.stdout) {
					opts = append(opts, relay.WithSnapshotHandler(dw.write))
				}
				runErr = relay.NewLoop(client).Run(ctx, &session, question, opts...)
				switch {
				case dw.printed != "":
					fmt.Fprintln(a.stdout)
				case runErr == nil:
					fmt.Fprintln(a.stdout, lastAnswer(session))
				}
			}

			if err := relayjson.Save(a.cfg.SessionPath, session); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			return runErr
		},
	}
	cmd.Flags().BoolVar(&noStream, "no-stream", false, "wait for the complete answer instead of streaming")
	return cmd
}

// deltaWriter prints snapshots to a terminal that cannot rewrite earlier
// output. Growth is printed as the new suffix; a replacement starts a new
// line with the full text.
type deltaWriter struct {
	w       io.Writer
	printed string
}

func (d *deltaWriter) write(snap relay.Snapshot) {
	switch {
	case snap.Text == d.printed:
		return
	case strings.HasPrefix(snap.Text, d.printed):
		io.WriteString(d.w, snap.Text[len(d.printed):])
	default:
		io.WriteString(d.w, "\n"+snap.Text)
	}
	d.printed = snap.Text
}

// lastAnswer returns the text of the final assistant message in session.
func lastAnswer(session relay.Session) string {
	if n := len(session.Messages); n > 0 && session.Messages[n-1].Role == relay.RoleAssistant {
		return session.Messages[n-1].Text
	}
	return ""
}

// recordExchange appends a completed non-streamed exchange to session.
func recordExchange(session *relay.Session, question, answer string) {
	now := time.Now()
	session.Messages = append(session.Messages,
		relay.Message{ID: uuid.NewString(), Role: relay.RoleUser, Text: question, CreatedAt: now},
		relay.Message{ID: uuid.NewString(), Role: relay.RoleAssistant, Text: answer, CreatedAt: now},
	)
	session.UpdatedAt = now
}
