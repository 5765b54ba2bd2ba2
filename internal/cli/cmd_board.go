package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/kanban/internal/board"
)

// BoardCmd returns the board command.
func BoardCmd(a *app) *Command {
	flags := flag.NewFlagSet("board", flag.ContinueOnError)
	priority := flags.StringP("priority", "p", "all", "Show only this priority: all|high|medium|low")

	return &Command{
		Flags: flags,
		Usage: "board [flags]",
		Short: "Show the board as columns",
		Long: `Show the board as three columns.

Column headings count every ticket in the stage, including tickets hidden by
--priority.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execBoard(ctx, a, o, *priority)
		},
	}
}

func execBoard(ctx context.Context, a *app, o *IO, priorityArg string) (err error) {
	filter, err := board.ParseFilter(priorityArg)
	if err != nil {
		return err
	}

	s, err := a.openIO(ctx, o, false)
	if err != nil {
		return err
	}

	defer func() { err = s.Close(err) }()

	o.Println(renderBoard(o.Out(), s.ctl.FilterByPriority(filter)))

	return nil
}
