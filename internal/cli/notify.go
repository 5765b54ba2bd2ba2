package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/calvinalkan/kanban/internal/board"
)

// limitNotice is the text shown when In Progress is full.
func limitNotice(limit int) string {
	return fmt.Sprintf("In Progress is full (limit %d tickets), finish something first", limit)
}

// ioNotifier surfaces controller notices as command warnings. Confirmation is
// either assumed (--yes) or read as a line from in.
type ioNotifier struct {
	o         *IO
	in        io.Reader
	limit     int
	assumeYes bool
}

var _ board.Notifier = (*ioNotifier)(nil)

func (n *ioNotifier) Warn(message string) {
	n.o.Warn(message)
}

func (n *ioNotifier) NotifyLimitReached() {
	n.o.Warn(limitNotice(n.limit))
}

func (n *ioNotifier) Confirm(message string, onConfirm func()) {
	if n.assumeYes {
		onConfirm()

		return
	}

	if n.in == nil {
		n.o.Warn("confirmation required, re-run with --yes")

		return
	}

	n.o.ErrPrintf("%s (yes/no): ", message)

	answer, _ := bufio.NewReader(n.in).ReadString('\n')
	if !isYes(answer) {
		n.o.Println("Cancelled.")

		return
	}

	onConfirm()
}

func isYes(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "yes" || answer == "y"
}
