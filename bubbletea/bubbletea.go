// Package bubbletea provides a Bubble Tea TUI for chatting with a Flowise
// chatflow.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/relay"
)

// PredictFunc asks question in session. The onSnapshot callback is called
// for each snapshot of the answer. The function records the exchange in
// session and blocks until the answer is complete or the context is
// cancelled.
type PredictFunc func(ctx context.Context, session *relay.Session, question string, onSnapshot func(relay.Snapshot)) error

// HistoryFunc loads the stored conversation of a session.
type HistoryFunc func(ctx context.Context, sessionID string) ([]relay.Message, error)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown; when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// SnapshotMsg delivers an answer snapshot to the model.
type SnapshotMsg struct {
	Snapshot relay.Snapshot
}

// PredictDoneMsg signals that the current prediction has finished.
type PredictDoneMsg struct {
	Err error
}

// HistoryMsg delivers the upstream conversation loaded at startup.
type HistoryMsg struct {
	Messages []relay.Message
	Err      error
}
