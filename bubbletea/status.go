package bubbletea

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const sessionIDPrefix = 8

// statusLine describes the model state in one line no wider than the
// viewport. While streaming it counts the answer's user-perceived
// characters.
func (m Model) statusLine() string {
	style := m.styles.Muted
	var s string
	switch {
	case m.err != nil:
		style = m.styles.Error
		s = fmt.Sprintf("Error: %v", m.err)
	case m.running:
		var n int
		if m.answer != nil {
			n = uniseg.GraphemeClusterCount(m.answer.Text())
		}
		s = fmt.Sprintf("Generating... %d chars, Ctrl+C to stop", n)
	default:
		s = "Enter to send, Ctrl+C to quit"
		if m.notice != "" {
			s = m.notice + " · " + s
		}
		if id := m.session.ID; id != "" {
			s = "session " + shortID(id) + " · " + s
		}
	}
	if w := m.Viewport.Width; w > 0 {
		s = runewidth.Truncate(s, w, "…")
	}
	return style.Render(s)
}

func shortID(id string) string {
	if len(id) <= sessionIDPrefix {
		return id
	}
	return id[:sessionIDPrefix]
}
