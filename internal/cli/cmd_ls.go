package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/kanban/internal/board"
)

// ListCmd returns the ls command.
func ListCmd(a *app) *Command {
	flags := flag.NewFlagSet("ls", flag.ContinueOnError)
	stage := flags.StringP("stage", "s", "", "Only list this stage: todo|inprogress|done")
	priority := flags.StringP("priority", "p", "all", "Only list this priority: all|high|medium|low")

	return &Command{
		Flags: flags,
		Usage: "ls [flags]",
		Short: "List tickets in board order",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execList(ctx, a, o, *stage, *priority)
		},
	}
}

func execList(ctx context.Context, a *app, o *IO, stageArg, priorityArg string) (err error) {
	filter, err := board.ParseFilter(priorityArg)
	if err != nil {
		return err
	}

	var only board.Stage

	if stageArg != "" {
		only, err = board.ParseStage(stageArg)
		if err != nil {
			return err
		}
	}

	s, err := a.openIO(ctx, o, false)
	if err != nil {
		return err
	}

	defer func() { err = s.Close(err) }()

	view := s.ctl.FilterByPriority(filter)

	for _, col := range view.Columns {
		if only != "" && col.Stage != only {
			continue
		}

		for _, t := range col.Visible {
			o.Println(formatTicket(t))
		}
	}

	return nil
}
