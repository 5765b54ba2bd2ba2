package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// ClearCmd returns the clear command.
func ClearCmd(a *app) *Command {
	flags := flag.NewFlagSet("clear", flag.ContinueOnError)
	yes := flags.BoolP("yes", "y", false, "Do not ask for confirmation")

	return &Command{
		Flags: flags,
		Usage: "clear [flags]",
		Short: "Delete every ticket (asks first)",
		Long: `Delete every ticket on the board.

Asks for confirmation on stdin unless --yes is given. Ticket IDs keep counting
up after a clear; they are never reused.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execClear(ctx, a, o, *yes)
		},
	}
}

func execClear(ctx context.Context, a *app, o *IO, yes bool) (err error) {
	s, err := a.openIO(ctx, o, yes)
	if err != nil {
		return err
	}

	defer func() { err = s.Close(err) }()

	cleared, err := s.ctl.ClearBoard(ctx)
	if err != nil {
		return err
	}

	if cleared {
		o.Println("Board cleared")
	}

	return nil
}
