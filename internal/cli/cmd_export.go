package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/kanban/internal/board"
)

var errUnknownFormat = errors.New("unknown format (must be json|yaml)")

// exportTicket is the export form of a ticket, with English field names.
type exportTicket struct {
	ID       string `json:"id"       yaml:"id"`
	Title    string `json:"title"    yaml:"title"`
	Priority string `json:"priority" yaml:"priority"`
	Stage    string `json:"stage"    yaml:"stage"`
}

type exportBoard struct {
	Next    int            `json:"next"    yaml:"next"`
	Counts  map[string]int `json:"counts"  yaml:"counts"`
	Tickets []exportTicket `json:"tickets" yaml:"tickets"`
}

// ExportCmd returns the export command.
func ExportCmd(a *app) *Command {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	format := flags.StringP("format", "f", "json", "Output format: json|yaml")

	return &Command{
		Flags: flags,
		Usage: "export [flags]",
		Short: "Print the whole board as JSON or YAML",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execExport(ctx, a, o, *format)
		},
	}
}

func execExport(ctx context.Context, a *app, o *IO, format string) (err error) {
	if format != "json" && format != "yaml" {
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}

	s, err := a.openIO(ctx, o, false)
	if err != nil {
		return err
	}

	defer func() { err = s.Close(err) }()

	data, err := encodeExport(snapshot(s.ctl.Store()), format)
	if err != nil {
		return err
	}

	o.Printf("%s", data)

	return nil
}

func snapshot(store *board.Store) exportBoard {
	out := exportBoard{
		Next:    store.Next(),
		Counts:  make(map[string]int, len(board.Stages)),
		Tickets: []exportTicket{},
	}

	for _, stage := range board.Stages {
		out.Counts[string(stage)] = store.CountByStage(stage)
	}

	for _, t := range store.All() {
		out.Tickets = append(out.Tickets, exportTicket{
			ID:       t.ID,
			Title:    t.Title,
			Priority: t.Priority.Label(),
			Stage:    string(t.Stage),
		})
	}

	return out
}

func encodeExport(b exportBoard, format string) ([]byte, error) {
	if format == "yaml" {
		data, err := yaml.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		return data, nil
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return append(data, '\n'), nil
}
