package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calvinalkan/kanban/internal/board"
)

const columnWidth = 32

var priorityColors = map[board.Priority]lipgloss.Color{
	board.PriorityHigh:   lipgloss.Color("#c0392b"),
	board.PriorityMedium: lipgloss.Color("#d68910"),
	board.PriorityLow:    lipgloss.Color("#1e8449"),
}

// renderBoard draws the view as side-by-side columns. Colors are only emitted
// when w is a terminal that supports them.
func renderBoard(w io.Writer, view board.View) string {
	r := lipgloss.NewRenderer(w)

	column := r.NewStyle().
		Width(columnWidth).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	heading := r.NewStyle().Bold(true).MarginBottom(1)
	muted := r.NewStyle().Faint(true)

	cols := make([]string, 0, len(view.Columns))

	for _, col := range view.Columns {
		var b strings.Builder

		b.WriteString(heading.Render(col.Heading()))
		b.WriteString("\n")

		if len(col.Visible) == 0 {
			b.WriteString(muted.Render("(empty)"))
		}

		for i, t := range col.Visible {
			if i > 0 {
				b.WriteString("\n")
			}

			prio := r.NewStyle().Foreground(priorityColors[t.Priority])

			fmt.Fprintf(&b, "#%d %s\n   %s", t.Number(), t.Title, prio.Render(t.Priority.Label()))
		}

		cols = append(cols, column.Render(b.String()))
	}

	out := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	if !view.Filter.IsAll() {
		out += "\n" + muted.Render(fmt.Sprintf("Filter: %s (%d hidden)", view.Filter, view.Hidden()))
	}

	return out
}

// formatTicket is the one-line listing form used by ls.
func formatTicket(t board.Ticket) string {
	return fmt.Sprintf("%s [%s] (%s) %s", t.ID, t.Stage, t.Priority.Label(), t.Title)
}
