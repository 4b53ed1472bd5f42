package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/relay/goldmark"
)

var _ MessageBlock = (*AnswerBlock)(nil)

// AnswerBlock renders an answer with markdown formatting while its
// snapshots arrive. Snapshots carry the full answer so far, which usually
// extends the previous one but may replace it entirely. The stable prefix
// ending at the last paragraph break is rendered once per width and cached;
// only the trailing text is re-rendered on each snapshot.
type AnswerBlock struct {
	renderer *goldmark.Renderer
	styles   Styles
	text     string
	done     bool

	// settled is the prefix of text ending at the last "\n\n" outside a
	// code fence.
	settled        string
	settledByWidth map[int]string
}

// NewAnswerBlock creates an empty, still streaming answer.
func NewAnswerBlock(renderer *goldmark.Renderer, styles Styles) *AnswerBlock {
	return &AnswerBlock{
		renderer:       renderer,
		styles:         styles,
		settledByWidth: make(map[int]string),
	}
}

// SetText replaces the answer with the latest snapshot text.
func (b *AnswerBlock) SetText(text string) {
	if b.settled != "" && !strings.HasPrefix(text, b.settled+"\n\n") {
		// Replaced rather than extended.
		b.settled = ""
		clear(b.settledByWidth)
	}
	b.text = text
	b.settle()
}

// Finish marks the answer complete.
func (b *AnswerBlock) Finish() { b.done = true }

// Text returns the current answer text.
func (b *AnswerBlock) Text() string { return b.text }

func (b *AnswerBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AnswerBlock) View(width int) string {
	if strings.TrimSpace(b.text) == "" {
		if b.done {
			return ""
		}
		return b.styles.Muted.Render("…")
	}

	tail := b.text
	if b.settled != "" {
		tail = b.text[len(b.settled)+2:]
	}
	head := b.renderSettled(width)
	body := b.renderer.Render(tail, width)
	switch {
	case head == "":
		return body
	case body == "":
		return head
	default:
		return strings.TrimRight(head, "\n") + "\n\n" + strings.TrimLeft(body, "\n")
	}
}

// settle advances the cached prefix to the last paragraph break that does
// not fall inside an open code fence.
func (b *AnswerBlock) settle() {
	for end := len(b.text); ; {
		idx := strings.LastIndex(b.text[:end], "\n\n")
		if idx <= len(b.settled) {
			return
		}
		candidate := b.text[:idx]
		if !hasUnclosedFence(candidate) {
			b.settled = candidate
			clear(b.settledByWidth)
			return
		}
		end = idx
	}
}

func (b *AnswerBlock) renderSettled(width int) string {
	if b.settled == "" {
		return ""
	}
	if cached, ok := b.settledByWidth[width]; ok {
		return cached
	}
	rendered := b.renderer.Render(b.settled, width)
	b.settledByWidth[width] = rendered
	return rendered
}

// hasUnclosedFence reports whether s has an odd number of "```" markers.
// Triple backticks inside inline code spans are counted too.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
