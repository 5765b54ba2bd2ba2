package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/kanban/internal/board"
)

// CreateCmd returns the create command.
func CreateCmd(a *app) *Command {
	flags := flag.NewFlagSet("create", flag.ContinueOnError)
	priority := flags.StringP("priority", "p", "medium", "Priority: high|medium|low")

	return &Command{
		Flags:   flags,
		Usage:   "create [flags] <title>",
		Aliases: []string{"add"},
		Short:   "Create a ticket in To Do, prints its ID",
		Long: `Create a ticket in To Do and print its ID.

All positional arguments are joined into the title. A blank title is rejected.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execCreate(ctx, a, o, strings.Join(args, " "), *priority)
		},
	}
}

func execCreate(ctx context.Context, a *app, o *IO, title, priorityArg string) (err error) {
	priority, err := board.ParsePriority(priorityArg)
	if err != nil {
		return err
	}

	s, err := a.openIO(ctx, o, false)
	if err != nil {
		return err
	}

	defer func() { err = s.Close(err) }()

	t, ok, err := s.ctl.CreateTicket(ctx, title, priority)
	if err != nil {
		return err
	}

	if ok {
		o.Println(t.ID)
	}

	return nil
}
