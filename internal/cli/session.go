package cli

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/calvinalkan/kanban/internal/board"
	"github.com/calvinalkan/kanban/internal/kv"
)

// app carries what every command needs.
type app struct {
	cfg board.Config
	log *zap.Logger
	in  io.Reader
}

// session is an open medium plus a controller loaded from it.
type session struct {
	medium kv.Medium
	ctl    *board.Controller
}

// open loads the board for one command. The caller must Close the session.
func (a *app) open(ctx context.Context, notifier board.Notifier, onChange func(board.View)) (*session, error) {
	medium, err := kv.Open(ctx, a.cfg.Backend, a.cfg.BoardDirAbs, a.log)
	if err != nil {
		return nil, err
	}

	persist := board.NewPersistence(medium, a.log)

	ctl, err := board.OpenController(ctx, persist, a.cfg.Rules(), board.ControllerOptions{
		Notifier: notifier,
		Logger:   a.log,
		OnChange: onChange,
	})
	if err != nil {
		_ = medium.Close()

		return nil, err
	}

	return &session{medium: medium, ctl: ctl}, nil
}

// openIO opens a session whose notices become command warnings.
func (a *app) openIO(ctx context.Context, o *IO, assumeYes bool) (*session, error) {
	return a.open(ctx, &ioNotifier{o: o, in: a.in, limit: a.cfg.WIPLimit, assumeYes: assumeYes}, nil)
}

// Close releases the medium. err is the command's result; a close failure is
// joined onto it.
func (s *session) Close(err error) error {
	return errors.Join(err, s.medium.Close())
}
