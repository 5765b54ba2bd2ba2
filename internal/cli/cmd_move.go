package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/kanban/internal/board"
)

var errMoveArgs = errors.New("expected <id> <stage>")

// MoveCmd returns the move command.
func MoveCmd(a *app) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("move", flag.ContinueOnError),
		Usage:   "move <id> <stage>",
		Aliases: []string{"mv"},
		Short:   "Move a ticket to todo|inprogress|done",
		Long: `Move a ticket to another stage.

Rules:
  - To Do cannot go straight to Done
  - Done cannot go back to To Do or In Progress
  - In Progress holds at most wip_limit tickets (default 5)

A rejected move prints a warning and exits 1.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execMove(ctx, a, o, args)
		},
	}
}

func execMove(ctx context.Context, a *app, o *IO, args []string) (err error) {
	if len(args) != 2 {
		return errMoveArgs
	}

	id := args[0]

	dst, err := board.ParseStage(args[1])
	if err != nil {
		return err
	}

	s, err := a.openIO(ctx, o, false)
	if err != nil {
		return err
	}

	defer func() { err = s.Close(err) }()

	moved, err := s.ctl.RequestMove(ctx, id, dst)
	if err != nil {
		return err
	}

	if moved {
		o.Println("Moved", id, "to", dst.Title())

		return nil
	}

	if len(o.Warnings()) == 0 {
		o.Println(id, "is already in", dst.Title())
	}

	return nil
}
