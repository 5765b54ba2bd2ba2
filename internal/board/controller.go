package board

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// User-facing notices.
const (
	NoticeTitleRequired = "enter a title for the ticket"
	NoticeBoardEmpty    = "there are no tickets on the board, create one first"
	ConfirmClear        = "Delete all tickets from the board?"
)

// Notifier is the presentation layer's notification surface. The controller
// calls it; it never renders anything itself.
type Notifier interface {
	// Warn shows a validation or rule-denial message.
	Warn(message string)

	// NotifyLimitReached shows the distinct In Progress limit notice.
	NotifyLimitReached()

	// Confirm asks the user to confirm a destructive action and calls
	// onConfirm only if they accept.
	Confirm(message string, onConfirm func())
}

// ControllerOptions configures a [Controller].
type ControllerOptions struct {
	// Notifier receives warnings and confirmations. Required.
	Notifier Notifier

	// Logger receives operational logs. Nil disables logging.
	Logger *zap.Logger

	// OnChange, if set, is called with the fresh view after every change to
	// the board or the filter.
	OnChange func(View)
}

// Controller runs user-initiated board operations: it consults the rule
// engine through the store, persists successful changes, and reports
// failures through the [Notifier]. Domain failures are recovered here; the
// returned errors are only storage failures.
type Controller struct {
	store    *Store
	persist  *Persistence
	notify   Notifier
	log      *zap.Logger
	onChange func(View)
	filter   Filter
}

// NewController wires a controller around an existing store.
func NewController(store *Store, persist *Persistence, opts ControllerOptions) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		store:    store,
		persist:  persist,
		notify:   opts.Notifier,
		log:      logger,
		onChange: opts.OnChange,
	}
}

// OpenController loads the saved board from persist and wires a controller
// around it.
func OpenController(ctx context.Context, persist *Persistence, rules Rules, opts ControllerOptions) (*Controller, error) {
	tickets, next, err := persist.Load(ctx)
	if err != nil {
		return nil, err
	}

	return NewController(RestoreStore(rules, tickets, next), persist, opts), nil
}

// Store exposes the ticket store for read access.
func (c *Controller) Store() *Store {
	return c.store
}

// View returns the board under the current filter.
func (c *Controller) View() View {
	return BuildView(c.store, c.filter)
}

// CreateTicket adds a ticket to To Do and saves. An empty title is reported
// through the notifier and nothing is stored or saved; ok is false then.
func (c *Controller) CreateTicket(ctx context.Context, title string, priority Priority) (Ticket, bool, error) {
	t, err := c.store.Create(title, priority)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			c.notify.Warn(NoticeTitleRequired)
		} else {
			c.notify.Warn(err.Error())
		}

		return Ticket{}, false, nil
	}

	c.log.Debug("ticket created", zap.String("id", t.ID), zap.String("priority", string(t.Priority)))

	return t, true, c.commit(ctx)
}

// DeleteTicket removes a ticket and saves. Deleting an unknown id does
// nothing; deleted is false then.
func (c *Controller) DeleteTicket(ctx context.Context, id string) (bool, error) {
	if !c.store.Delete(id) {
		return false, nil
	}

	c.log.Debug("ticket deleted", zap.String("id", id))

	return true, c.commit(ctx)
}

// RequestMove moves a ticket to dst if the rules allow it. A denial is
// reported through the notifier (the WIP limit via NotifyLimitReached) and
// leaves the board untouched. moved is true only if the ticket changed stage.
func (c *Controller) RequestMove(ctx context.Context, id string, dst Stage) (bool, error) {
	result, err := c.store.Move(id, dst)
	if err != nil {
		c.notify.Warn(err.Error())

		return false, nil
	}

	if !result.Allowed {
		c.log.Info("move denied",
			zap.String("id", id),
			zap.String("from", string(result.From)),
			zap.String("to", string(result.To)),
			zap.String("reason", result.Reason),
		)

		if result.Rule == RuleWIPLimit {
			c.notify.NotifyLimitReached()
		} else {
			c.notify.Warn(fmt.Sprintf("cannot move %s from %s to %s: %s",
				id, result.From.Title(), result.To.Title(), result.Reason))
		}

		return false, nil
	}

	if !result.Changed() {
		return false, nil
	}

	c.log.Debug("ticket moved",
		zap.String("id", id),
		zap.String("from", string(result.From)),
		zap.String("to", string(result.To)),
	)

	return true, c.commit(ctx)
}

// FilterByPriority changes which tickets the view shows. It does not touch
// the store, persisted state, or counts.
func (c *Controller) FilterByPriority(f Filter) View {
	c.filter = f
	view := c.View()

	if c.onChange != nil {
		c.onChange(view)
	}

	return view
}

// ClearBoard removes every ticket and erases the saved tickets after the user
// confirms. On an empty board it only shows a notice. cleared reports whether
// the board was cleared before Confirm returned.
func (c *Controller) ClearBoard(ctx context.Context) (bool, error) {
	if c.store.Len() == 0 {
		c.notify.Warn(NoticeBoardEmpty)

		return false, nil
	}

	var (
		cleared  bool
		eraseErr error
	)

	c.notify.Confirm(ConfirmClear, func() {
		eraseErr = c.persist.Erase(ctx, c.store.Next())
		if eraseErr != nil {
			return
		}

		removed := c.store.Len()
		c.store.ClearAll()

		cleared = true

		c.log.Info("board cleared", zap.Int("removed", removed))
		c.changed()
	})

	return cleared, eraseErr
}

func (c *Controller) commit(ctx context.Context) error {
	err := c.persist.Save(ctx, c.store.All(), c.store.Next())
	c.changed()

	return err
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange(c.View())
	}
}
