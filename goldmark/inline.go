package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// inline returns the styled inline content of node.
func (w *writer) inline(node ast.Node) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		w.span(c, &buf)
	}
	return buf.String()
}

func (w *writer) span(node ast.Node, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(w.src))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		inner := w.inline(n)
		if n.Level >= 2 {
			buf.WriteString(w.r.strong.Render(inner))
		} else {
			buf.WriteString(w.r.emphasis.Render(inner))
		}

	case *east.Strikethrough:
		buf.WriteString(w.r.strike.Render(w.inline(n)))

	case *ast.CodeSpan:
		buf.WriteString(w.r.code.Render(w.inline(n)))

	case *ast.Link:
		label := w.inline(n)
		dest := string(n.Destination)
		buf.WriteString(w.r.link.Render(label))
		if dest != "" && dest != plain(n, w.src) {
			buf.WriteString(" " + w.r.muted.Render("("+dest+")"))
		}

	case *ast.AutoLink:
		buf.WriteString(w.r.link.Render(string(n.URL(w.src))))

	case *ast.Image:
		buf.WriteString(w.r.link.Render(w.inline(n)))
		buf.WriteString(" " + w.r.muted.Render("("+string(n.Destination)+")"))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(w.src))
		}

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			w.span(c, buf)
		}
	}
}

// plain returns the unstyled text of node's inline descendants.
func plain(node ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.AutoLink:
			buf.Write(t.URL(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
