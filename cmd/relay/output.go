package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/relay"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const defaultTableWidth = 80

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// terminalWidth returns the column count of w, or defaultTableWidth when w
// is not a terminal.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTableWidth
}

// writeMessagesTable renders msgs as a table no wider than width.
func writeMessagesTable(w io.Writer, msgs []relay.Message, width int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = true

	// Time and role columns plus borders and padding take about 40 columns.
	textWidth := max(width-40, 20)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: textWidth},
	})
	tw.AppendHeader(table.Row{"Time", "Role", "Text"})
	for _, m := range msgs {
		tw.AppendRow(table.Row{m.CreatedAt.Local().Format(time.DateTime), string(m.Role), strings.TrimSpace(m.Text)})
	}
	tw.Render()
}
