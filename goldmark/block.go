package goldmark

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// blocks renders the block children of node, separated by blank lines.
func (w *writer) blocks(node ast.Node, width int) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		w.block(c, width)
		if c.NextSibling() != nil {
			w.buf.WriteByte('\n')
		}
	}
}

func (w *writer) block(node ast.Node, width int) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		w.line(wrap(w.inline(n), width))

	case *ast.Heading:
		w.line(wrap(w.r.heading.Render(w.inline(n)), width))

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(w.src)); lang != "" {
			w.line(w.r.muted.Render(lang))
		}
		w.code(n)

	case *ast.CodeBlock:
		w.code(n)

	case *ast.Blockquote:
		inner := &writer{r: w.r, src: w.src}
		inner.blocks(n, max(width-2, 1))
		for _, l := range strings.Split(strings.TrimRight(inner.buf.String(), "\n"), "\n") {
			w.line(w.r.quoteBar + l)
		}

	case *ast.List:
		w.list(n, width, 0)

	case *east.Table:
		w.table(n, width)

	case *ast.ThematicBreak:
		w.line(w.r.muted.Render(strings.Repeat("─", min(width, defaultWidth))))

	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.buf.Write(seg.Value(w.src))
		}

	default:
		w.blocks(node, width)
	}
}

func (w *writer) line(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// code writes the raw lines of a code block behind a gutter glyph.
func (w *writer) code(n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		w.line(w.r.codeGlyph + strings.TrimRight(string(seg.Value(w.src)), "\n"))
	}
}

func (w *writer) list(n *ast.List, width, depth int) {
	num := n.Start
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if n.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		w.item(item, strings.Repeat("  ", depth), marker, width, depth)
	}
}

// item renders one list item. Its text blocks share the marker line and
// continuation lines align under the text; nested lists indent one level.
func (w *writer) item(item *ast.ListItem, indent, marker string, width, depth int) {
	prefix := indent + marker
	hang := strings.Repeat(" ", lipgloss.Width(prefix))
	textWidth := max(width-lipgloss.Width(prefix), 10)

	var pending bytes.Buffer
	flush := func() {
		if pending.Len() == 0 {
			return
		}
		for i, l := range strings.Split(wrap(pending.String(), textWidth), "\n") {
			if i == 0 {
				w.line(prefix + l)
				prefix = hang
				continue
			}
			w.line(hang + l)
		}
		pending.Reset()
	}

	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch in := c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if pending.Len() > 0 {
				pending.WriteByte(' ')
			}
			pending.WriteString(w.inline(in))
		case *ast.List:
			flush()
			w.list(in, width, depth+1)
		default:
			flush()
			inner := &writer{r: w.r, src: w.src}
			inner.block(in, textWidth)
			for _, l := range strings.Split(strings.TrimRight(inner.buf.String(), "\n"), "\n") {
				w.line(hang + l)
			}
		}
	}
	flush()
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}
