// Package goldmark renders answer markdown to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
//
// Answers are re-rendered on every snapshot while they stream, so the input
// is often cut mid-construct (an open code fence, half a table). Goldmark
// parses such prefixes into ordinary blocks and the renderer prints them as
// they stand.
package goldmark

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

const defaultWidth = 80

// Renderer renders markdown with the styles of one theme. It is safe to
// reuse but not for concurrent use.
type Renderer struct {
	parser parser.Parser

	strong    lipgloss.Style
	emphasis  lipgloss.Style
	code      lipgloss.Style
	heading   lipgloss.Style
	muted     lipgloss.Style
	link      lipgloss.Style
	strike    lipgloss.Style
	quoteBar  string
	codeGlyph string
}

// NewRenderer creates a Renderer for theme. Tables, strikethrough and bare
// URLs are recognized in addition to CommonMark.
func NewRenderer(theme relay.Theme) *Renderer {
	muted := lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true)
	md := goldmark.New(goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
	))
	return &Renderer{
		parser:    md.Parser(),
		strong:    lipgloss.NewStyle().Bold(true),
		emphasis:  lipgloss.NewStyle().Italic(true),
		code:      lipgloss.NewStyle().Bold(true).Foreground(ansiColor(theme.Accent)),
		heading:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     muted,
		link:      lipgloss.NewStyle().Underline(true),
		strike:    lipgloss.NewStyle().Strikethrough(true),
		quoteBar:  muted.Render("┃") + " ",
		codeGlyph: muted.Render("│") + " ",
	}
}

// Render returns source as styled text wrapped to width. Code blocks and
// tables are not reflowed. A non-positive width means 80 columns.
func (r *Renderer) Render(source string, width int) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	src := []byte(source)
	doc := r.parser.Parse(text.NewReader(src))

	w := &writer{r: r, src: src}
	w.blocks(doc, width)
	return strings.TrimRight(w.buf.String(), "\n")
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

// writer holds the state of one Render call.
type writer struct {
	r   *Renderer
	src []byte
	buf bytes.Buffer
}
