package board

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/calvinalkan/kanban/internal/kv"
)

// Keys in the durable medium.
const (
	KeyTickets = "kanbanTickets"
	KeyCounter = "kanbanContador"

	// KeyTheme belongs to the presentation layer; board persistence never
	// writes or removes it.
	KeyTheme = "darkMode"
)

// record is the persisted form of a [Ticket].
type record struct {
	ID       string `json:"id"`
	Title    string `json:"titulo"`
	Priority string `json:"prioridad"`
	Stage    string `json:"columna"`
}

// Persistence serializes board state to a [kv.Medium] and reads it back.
type Persistence struct {
	medium kv.Medium
	log    *zap.Logger
}

// NewPersistence returns a persistence adapter over medium. A nil logger
// disables logging.
func NewPersistence(medium kv.Medium, logger *zap.Logger) *Persistence {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Persistence{medium: medium, log: logger}
}

// Save writes every ticket, in the given order, and the sequence counter in
// one step. Prior values are replaced, not merged.
func (p *Persistence) Save(ctx context.Context, tickets []Ticket, next int) error {
	records := make([]record, 0, len(tickets))

	for _, t := range tickets {
		records = append(records, record{
			ID:       t.ID,
			Title:    t.Title,
			Priority: string(t.Priority),
			Stage:    string(t.Stage),
		})
	}

	encoded, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode tickets: %w", err)
	}

	err = p.medium.Put(ctx,
		kv.Item{Key: KeyTickets, Value: string(encoded)},
		kv.Item{Key: KeyCounter, Value: strconv.Itoa(next)},
	)
	if err != nil {
		return fmt.Errorf("save board: %w", err)
	}

	p.log.Debug("board saved", zap.Int("tickets", len(records)), zap.Int("next", next))

	return nil
}

// Load reads the saved board. Missing or malformed data is not an error: it
// yields no tickets and a counter of 1, and is logged as [ErrCorruptState].
// Individual records with an unknown stage or priority, an empty title, or a
// repeated id are dropped. The returned error is reserved for failures of the
// medium itself, so callers never overwrite state they could not read.
func (p *Persistence) Load(ctx context.Context) ([]Ticket, int, error) {
	rawTickets, hasTickets, err := p.medium.Get(ctx, KeyTickets)
	if err != nil {
		return nil, 0, fmt.Errorf("load board: %w", err)
	}

	rawCounter, hasCounter, err := p.medium.Get(ctx, KeyCounter)
	if err != nil {
		return nil, 0, fmt.Errorf("load board: %w", err)
	}

	next := 1

	if hasCounter {
		n, ok := parseCounter(rawCounter)
		if !ok {
			p.corrupt("counter is not a positive integer", zap.String("value", rawCounter))
		} else {
			next = n
		}
	}

	if !hasTickets {
		return []Ticket{}, next, nil
	}

	var records []record

	err = json.Unmarshal([]byte(rawTickets), &records)
	if err != nil {
		p.corrupt("tickets are not a JSON array of records", zap.Error(err))

		return []Ticket{}, 1, nil
	}

	tickets := make([]Ticket, 0, len(records))
	seen := make(map[string]bool, len(records))

	for i, rec := range records {
		t := Ticket{
			ID:       rec.ID,
			Title:    strings.TrimSpace(rec.Title),
			Priority: Priority(rec.Priority),
			Stage:    Stage(rec.Stage),
		}

		reason := ""

		switch {
		case t.ID == "":
			reason = "missing id"
		case seen[t.ID]:
			reason = "duplicate id"
		case t.Title == "":
			reason = "empty title"
		case !t.Priority.Valid():
			reason = "unknown priority"
		case !t.Stage.Valid():
			reason = "unknown stage"
		}

		if reason != "" {
			p.corrupt("dropping ticket record: "+reason, zap.Int("index", i), zap.String("id", rec.ID))

			continue
		}

		seen[t.ID] = true
		tickets = append(tickets, t)
	}

	p.log.Debug("board loaded", zap.Int("tickets", len(tickets)), zap.Int("next", next))

	return tickets, next, nil
}

// Erase removes the saved tickets and writes next as the counter, so a cleared
// board keeps issuing fresh ids.
func (p *Persistence) Erase(ctx context.Context, next int) error {
	err := p.medium.Remove(ctx, KeyTickets)
	if err != nil {
		return fmt.Errorf("erase board: %w", err)
	}

	err = p.medium.Put(ctx, kv.Item{Key: KeyCounter, Value: strconv.Itoa(next)})
	if err != nil {
		return fmt.Errorf("erase board: %w", err)
	}

	p.log.Info("board erased", zap.Int("next", next))

	return nil
}

func (p *Persistence) corrupt(msg string, fields ...zap.Field) {
	p.log.Warn(msg, append(fields, zap.NamedError("state", ErrCorruptState))...)
}

// parseCounter reads the leading decimal digits of s, ignoring surrounding
// space and any trailing garbage ("12abc" is 12). Values below 1 are rejected.
func parseCounter(s string) (int, bool) {
	s = strings.TrimSpace(s)

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return 0, false
	}

	return n, true
}
