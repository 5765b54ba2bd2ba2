package board

import (
	"fmt"
	"strings"
)

// Filter selects which tickets are visible. The zero value shows every ticket.
// Filtering is presentation only: it never changes the store or the counts.
type Filter struct {
	priority Priority
}

// FilterAll shows every ticket.
var FilterAll = Filter{}

// FilterPriority shows only tickets with priority p.
func FilterPriority(p Priority) Filter {
	return Filter{priority: p}
}

// ParseFilter accepts "all" (also "todos", "*" or empty) or a priority name.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "todos", "*":
		return FilterAll, nil
	}

	p, err := ParsePriority(s)
	if err != nil {
		return Filter{}, fmt.Errorf("filter: %w", err)
	}

	return FilterPriority(p), nil
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Ticket) bool {
	return f.priority == "" || t.Priority == f.priority
}

// IsAll reports whether f shows every ticket.
func (f Filter) IsAll() bool {
	return f.priority == ""
}

func (f Filter) String() string {
	if f.IsAll() {
		return "All"
	}

	return f.priority.Label()
}

// Column is one rendered stage.
type Column struct {
	Stage   Stage
	Total   int
	Visible []Ticket
}

// Heading returns the column title with the total ticket count, e.g.
// "In Progress (2)". The count ignores the filter.
func (c Column) Heading() string {
	return fmt.Sprintf("%s (%d)", c.Stage.Title(), c.Total)
}

// View is a snapshot of the board as the presentation layer shows it.
type View struct {
	Filter  Filter
	Columns []Column
}

// Hidden returns how many tickets the filter hides.
func (v View) Hidden() int {
	hidden := 0

	for _, c := range v.Columns {
		hidden += c.Total - len(c.Visible)
	}

	return hidden
}

// BuildView derives the view of s under f.
func BuildView(s *Store, f Filter) View {
	view := View{Filter: f, Columns: make([]Column, 0, len(Stages))}

	for _, stage := range Stages {
		col := Column{Stage: stage, Total: s.CountByStage(stage), Visible: []Ticket{}}

		for _, t := range s.ListByStage(stage) {
			if f.Match(t) {
				col.Visible = append(col.Visible, t)
			}
		}

		view.Columns = append(view.Columns, col)
	}

	return view
}
