package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"
)

var errIDRequired = errors.New("ticket ID is required")

// RemoveCmd returns the rm command.
func RemoveCmd(a *app) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage:   "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete tickets",
		Long:    "Delete tickets by ID. Unknown IDs are skipped.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execRemove(ctx, a, o, args)
		},
	}
}

func execRemove(ctx context.Context, a *app, o *IO, ids []string) (err error) {
	if len(ids) == 0 {
		return errIDRequired
	}

	s, err := a.openIO(ctx, o, false)
	if err != nil {
		return err
	}

	defer func() { err = s.Close(err) }()

	for _, id := range ids {
		deleted, delErr := s.ctl.DeleteTicket(ctx, id)
		if delErr != nil {
			return delErr
		}

		if deleted {
			o.Println("Deleted", id)
		} else {
			o.Println("No ticket", id+", nothing deleted")
		}
	}

	return nil
}
