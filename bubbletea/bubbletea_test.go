package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/relay"
	bt "github.com/fwojciec/relay/bubbletea"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, predict bt.PredictFunc) bt.Model {
	t.Helper()
	return initModelWithSize(t, predict, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, predict bt.PredictFunc, width, height int) bt.Model {
	t.Helper()
	m := bt.New(predict, &relay.Session{}, relay.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopPredict is a predict function that answers nothing.
func nopPredict(_ context.Context, _ *relay.Session, _ string, _ func(relay.Snapshot)) error {
	return nil
}
