package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*QuestionBlock)(nil)

const questionPrefix = "> "

// QuestionBlock renders one question of the session. Wrapped lines hang
// under the question text; the turn number is shown after it.
type QuestionBlock struct {
	text   string
	turn   int
	styles Styles
}

// NewQuestionBlock creates the block for the turn-th question, counting from
// one. A turn of zero or less hides the number.
func NewQuestionBlock(text string, turn int, styles Styles) *QuestionBlock {
	return &QuestionBlock{text: strings.TrimSpace(text), turn: turn, styles: styles}
}

func (b *QuestionBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *QuestionBlock) View(width int) string {
	text := b.text
	if b.turn > 0 {
		text += " " + b.styles.Muted.Render(fmt.Sprintf("#%d", b.turn))
	}
	indent := len(questionPrefix)
	body := lipgloss.NewStyle().Width(max(width-indent, 1)).Render(text)
	lines := strings.Split(body, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = b.styles.UserMsg.Render(questionPrefix) + lines[i]
		} else {
			lines[i] = strings.Repeat(" ", indent) + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
