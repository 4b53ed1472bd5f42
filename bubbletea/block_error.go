package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
)

var _ MessageBlock = (*ErrorBlock)(nil)

// ErrorBlock renders a failed prediction. Upstream refusals show the
// chatflow's status and reply; other failures show the error text.
type ErrorBlock struct {
	err    error
	styles Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(err error, styles Styles) *ErrorBlock {
	return &ErrorBlock{err: err, styles: styles}
}

func (b *ErrorBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *ErrorBlock) View(width int) string {
	content := b.styles.Error.Render(describeError(b.err))
	return lipgloss.NewStyle().Width(width).Render(content)
}

func describeError(err error) string {
	var te *relay.TransportError
	switch {
	case errors.As(err, &te):
		body := strings.TrimSpace(te.Body)
		if body == "" {
			body = http.StatusText(te.StatusCode)
		}
		return fmt.Sprintf("Flowise returned %d: %s", te.StatusCode, body)
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed out waiting for the answer"
	case errors.Is(err, relay.ErrValidation):
		return fmt.Sprintf("Invalid question: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
