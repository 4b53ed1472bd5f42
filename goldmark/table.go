package goldmark

import (
	"strings"

	"github.com/mattn/go-runewidth"
	east "github.com/yuin/goldmark/extension/ast"
)

const minColumnWidth = 3

// table renders a GFM table as aligned columns. Cells hold plain text so
// that widths can be measured; the header row is bold. When the columns do
// not fit, the widest ones are truncated with an ellipsis.
func (w *writer) table(t *east.Table, width int) {
	var rows [][]string
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		var cells []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cells = append(cells, strings.TrimSpace(plain(c, w.src)))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return
	}

	cols := len(t.Alignments)
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	widths := make([]int, cols)
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(c), minColumnWidth)
		}
	}
	fitColumns(widths, width-3*(cols-1))

	sep := w.r.muted.Render(" │ ")
	for ri, r := range rows {
		parts := make([]string, cols)
		for i := range cols {
			var cell string
			if i < len(r) {
				cell = r[i]
			}
			var align east.Alignment
			if i < len(t.Alignments) {
				align = t.Alignments[i]
			}
			parts[i] = pad(runewidth.Truncate(cell, widths[i], "…"), widths[i], align)
			if ri == 0 {
				parts[i] = w.r.strong.Render(parts[i])
			}
		}
		w.line(strings.TrimRight(strings.Join(parts, sep), " "))
		if _, ok := t.FirstChild().(*east.TableHeader); ok && ri == 0 {
			rules := make([]string, cols)
			for i, cw := range widths {
				rules[i] = strings.Repeat("─", cw)
			}
			w.line(w.r.muted.Render(strings.Join(rules, "─┼─")))
		}
	}
}

// fitColumns shrinks the widest columns one cell at a time until their sum
// fits avail or every column is at the minimum.
func fitColumns(widths []int, avail int) {
	total := 0
	for _, cw := range widths {
		total += cw
	}
	for total > avail {
		widest := 0
		for i, cw := range widths {
			if cw > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			return
		}
		widths[widest]--
		total--
	}
}

func pad(s string, width int, align east.Alignment) string {
	switch align {
	case east.AlignRight:
		return runewidth.FillLeft(s, width)
	case east.AlignCenter:
		gap := width - runewidth.StringWidth(s)
		if gap <= 0 {
			return s
		}
		return strings.Repeat(" ", gap/2) + s + strings.Repeat(" ", gap-gap/2)
	default:
		return runewidth.FillRight(s, width)
	}
}
