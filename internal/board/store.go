package board

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// idPrefix is prepended to the sequence number to form a ticket id.
const idPrefix = "ticket"

// Ticket is a single work item on the board. Only Stage changes after
// creation, and only through [Store.Move].
type Ticket struct {
	ID       string
	Title    string
	Priority Priority
	Stage    Stage
}

// Number returns the sequence number encoded in the id, or 0 if the id does not
// have the "ticket<N>" form.
func (t Ticket) Number() int {
	return idNumber(t.ID)
}

func idNumber(id string) int {
	digits, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return 0
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0
	}

	return n
}

func formatID(n int) string {
	return idPrefix + strconv.Itoa(n)
}

// MoveResult describes a move attempt.
type MoveResult struct {
	Verdict

	From Stage
	To   Stage
}

// Changed reports whether the move altered the board.
func (r MoveResult) Changed() bool {
	return r.Allowed && r.From != r.To
}

// Store is the in-memory ordered collection of tickets and the single source
// of truth for board state. Within a stage, tickets keep insertion order.
//
// Store is not safe for concurrent use; the controller is its only writer.
type Store struct {
	rules   Rules
	next    int
	byID    map[string]*Ticket
	columns map[Stage][]string
}

// NewStore returns an empty store whose sequence counter starts at 1.
func NewStore(rules Rules) *Store {
	return &Store{
		rules:   rules,
		next:    1,
		byID:    make(map[string]*Ticket),
		columns: make(map[Stage][]string, len(Stages)),
	}
}

// RestoreStore rebuilds a store from persisted tickets, in the given order.
// Tickets with a duplicate id, an invalid stage or priority, or an empty title
// are skipped. The counter is raised above every numeric id present so ids are
// never reissued, and never drops below 1.
//
// The WIP limit is not enforced here: a board saved under a higher limit loads
// intact and only refuses further moves into In Progress.
func RestoreStore(rules Rules, tickets []Ticket, next int) *Store {
	s := NewStore(rules)

	for _, t := range tickets {
		if _, dup := s.byID[t.ID]; dup || t.ID == "" {
			continue
		}

		if !t.Stage.Valid() || !t.Priority.Valid() || strings.TrimSpace(t.Title) == "" {
			continue
		}

		// No counter value lies above this id.
		if t.Number() == math.MaxInt {
			continue
		}

		s.insert(t)

		if n := t.Number(); n >= next {
			next = n + 1
		}
	}

	s.next = max(next, 1)

	return s
}

// Rules returns the transition rules the store enforces.
func (s *Store) Rules() Rules {
	return s.rules
}

// Next returns the value of the sequence counter, the number the next created
// ticket will get.
func (s *Store) Next() int {
	return s.next
}

// Len returns the total number of tickets.
func (s *Store) Len() int {
	return len(s.byID)
}

// Create adds a ticket to To Do. The title is trimmed; an empty or
// whitespace-only title fails with [ErrValidation] and leaves the store
// unchanged.
func (s *Store) Create(title string, priority Priority) (Ticket, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Ticket{}, fmt.Errorf("%w: %w", ErrValidation, ErrTitleRequired)
	}

	if !priority.Valid() {
		return Ticket{}, fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidPriority, priority)
	}

	if s.next == math.MaxInt {
		return Ticket{}, ErrIDsExhausted
	}

	t := Ticket{
		ID:       formatID(s.next),
		Title:    title,
		Priority: priority,
		Stage:    StageToDo,
	}

	s.next++
	s.insert(t)

	return t, nil
}

// Get returns the ticket with the given id.
func (s *Store) Get(id string) (Ticket, bool) {
	t, ok := s.byID[id]
	if !ok {
		return Ticket{}, false
	}

	return *t, true
}

// Delete removes the ticket if present and reports whether it was. Deleting an
// unknown id is a no-op.
func (s *Store) Delete(id string) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}

	s.columns[t.Stage] = slices.DeleteFunc(s.columns[t.Stage], func(other string) bool {
		return other == id
	})
	delete(s.byID, id)

	return true
}

// Move asks the rule engine whether the ticket may go to dst, given the
// current occupancy of dst. An allowed move to another stage appends the
// ticket to dst; a denied move changes nothing and the reason is in the
// result. Errors are returned only for unknown ids and invalid stages.
func (s *Store) Move(id string, dst Stage) (MoveResult, error) {
	if !dst.Valid() {
		return MoveResult{}, fmt.Errorf("%w: %q", ErrInvalidStage, dst)
	}

	t, ok := s.byID[id]
	if !ok {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrTicketNotFound, id)
	}

	result := MoveResult{
		Verdict: s.rules.Evaluate(t.Stage, dst, s.CountByStage(dst)),
		From:    t.Stage,
		To:      dst,
	}

	if !result.Changed() {
		return result, nil
	}

	s.columns[t.Stage] = slices.DeleteFunc(s.columns[t.Stage], func(other string) bool {
		return other == id
	})
	t.Stage = dst
	s.columns[dst] = append(s.columns[dst], id)

	return result, nil
}

// ListByStage returns copies of the tickets in stage, in board order.
func (s *Store) ListByStage(stage Stage) []Ticket {
	ids := s.columns[stage]
	out := make([]Ticket, 0, len(ids))

	for _, id := range ids {
		out = append(out, *s.byID[id])
	}

	return out
}

// CountByStage returns the number of tickets in stage.
func (s *Store) CountByStage(stage Stage) int {
	return len(s.columns[stage])
}

// All returns every ticket, grouped by stage in board order.
func (s *Store) All() []Ticket {
	out := make([]Ticket, 0, len(s.byID))

	for _, stage := range Stages {
		out = append(out, s.ListByStage(stage)...)
	}

	return out
}

// ClearAll removes every ticket. The sequence counter is left alone so ids are
// not reissued.
func (s *Store) ClearAll() {
	clear(s.byID)
	clear(s.columns)
}

func (s *Store) insert(t Ticket) {
	s.byID[t.ID] = &t
	s.columns[t.Stage] = append(s.columns[t.Stage], t.ID)
}
