package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/kanban/internal/board"
)

const (
	shellPrompt      = "kb> "
	shellHistoryFile = "history"
)

var shellCommands = []string{
	"add", "create", "rm", "delete", "mv", "move",
	"filter", "board", "ls", "list", "clear",
	"help", "exit", "quit", "q",
}

// ShellCmd returns the shell command.
func ShellCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive board session",
		Long: `Open an interactive session on the board.

The board is loaded once and redrawn after every change. Type 'help' inside
the shell for its commands.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execShell(ctx, a, o)
		},
	}
}

func execShell(ctx context.Context, a *app, o *IO) (err error) {
	sh := &shell{out: o.Out(), limit: a.cfg.WIPLimit}

	if f, ok := a.in.(*os.File); ok && f == os.Stdin {
		l := liner.NewLiner()
		defer l.Close()

		l.SetCtrlCAborts(true)
		l.SetCompleter(completeShell)

		history := filepath.Join(a.cfg.BoardDirAbs, shellHistoryFile)
		if hf, openErr := os.Open(history); openErr == nil {
			_, _ = l.ReadHistory(hf)
			_ = hf.Close()
		}

		defer func() {
			if hf, createErr := os.Create(history); createErr == nil {
				_, _ = l.WriteHistory(hf)
				_ = hf.Close()
			}
		}()

		sh.prompt = func(p string) (string, error) {
			line, promptErr := l.Prompt(p)
			if promptErr == nil && strings.TrimSpace(line) != "" {
				l.AppendHistory(line)
			}

			return line, promptErr
		}
	} else {
		sh.prompt = linePrompt(a.in, o.Out())
	}

	s, err := a.open(ctx, &shellNotifier{sh: sh}, sh.redraw)
	if err != nil {
		return err
	}

	defer func() { err = s.Close(err) }()

	sh.ctl = s.ctl

	return sh.run(ctx)
}

// linePrompt reads plain lines from in, echoing the prompt to out.
func linePrompt(in io.Reader, out io.Writer) func(string) (string, error) {
	if in == nil {
		return func(string) (string, error) { return "", io.EOF }
	}

	r := bufio.NewReader(in)

	return func(p string) (string, error) {
		_, _ = fmt.Fprint(out, p)

		line, err := r.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return "", err
		}

		return strings.TrimRight(line, "\r\n"), nil
	}
}

func completeShell(line string) []string {
	var out []string

	lower := strings.ToLower(line)
	for _, cmd := range shellCommands {
		if strings.HasPrefix(cmd, lower) {
			out = append(out, cmd)
		}
	}

	return out
}

// shell is the interactive loop around one long-lived controller.
type shell struct {
	ctl    *board.Controller
	out    io.Writer
	prompt func(string) (string, error)
	limit  int
}

func (sh *shell) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(sh.out, format, a...)
}

func (sh *shell) redraw(view board.View) {
	sh.printf("%s\n", renderBoard(sh.out, view))
}

func (sh *shell) run(ctx context.Context) error {
	sh.printf("kb shell (In Progress limit %d). Type 'help' for commands.\n", sh.limit)
	sh.redraw(sh.ctl.View())

	for {
		line, err := sh.prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				sh.printf("\nBye!\n")

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		quit, err := sh.exec(ctx, line)
		if err != nil {
			return err
		}

		if quit {
			sh.printf("Bye!\n")

			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// exec runs one shell line. Only storage failures are returned; everything
// else is reported inline.
func (sh *shell) exec(ctx context.Context, line string) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}

	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "exit", "quit", "q":
		return true, nil

	case "help", "?":
		sh.printHelp()

	case "add", "create":
		return false, sh.cmdAdd(ctx, args)

	case "rm", "delete":
		return false, sh.cmdRemove(ctx, args)

	case "mv", "move":
		return false, sh.cmdMove(ctx, args)

	case "filter":
		sh.cmdFilter(args)

	case "board":
		sh.redraw(sh.ctl.View())

	case "ls", "list":
		for _, col := range sh.ctl.View().Columns {
			for _, t := range col.Visible {
				sh.printf("%s\n", formatTicket(t))
			}
		}

	case "clear":
		_, err := sh.ctl.ClearBoard(ctx)

		return false, err

	default:
		sh.printf("Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	return false, nil
}

func (sh *shell) cmdAdd(ctx context.Context, args []string) error {
	priority := board.PriorityMedium

	if len(args) >= 2 && (args[0] == "-p" || args[0] == "--priority") {
		p, err := board.ParsePriority(args[1])
		if err != nil {
			sh.warn(err.Error())

			return nil
		}

		priority, args = p, args[2:]
	}

	_, _, err := sh.ctl.CreateTicket(ctx, strings.Join(args, " "), priority)

	return err
}

func (sh *shell) cmdRemove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		sh.printf("Usage: rm <id>\n")

		return nil
	}

	for _, id := range args {
		deleted, err := sh.ctl.DeleteTicket(ctx, id)
		if err != nil {
			return err
		}

		if !deleted {
			sh.printf("No ticket %s\n", id)
		}
	}

	return nil
}

func (sh *shell) cmdMove(ctx context.Context, args []string) error {
	if len(args) != 2 {
		sh.printf("Usage: mv <id> <stage>\n")

		return nil
	}

	stage, err := board.ParseStage(args[1])
	if err != nil {
		sh.warn(err.Error())

		return nil
	}

	_, err = sh.ctl.RequestMove(ctx, args[0], stage)

	return err
}

func (sh *shell) cmdFilter(args []string) {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	f, err := board.ParseFilter(arg)
	if err != nil {
		sh.warn(err.Error())

		return
	}

	sh.ctl.FilterByPriority(f)
}

func (sh *shell) warn(message string) {
	sh.printf("warning: %s\n", message)
}

func (sh *shell) printHelp() {
	sh.printf("Commands:\n")
	sh.printf("  add [-p high|medium|low] <title>   Create a ticket in To Do\n")
	sh.printf("  rm <id>...                         Delete tickets\n")
	sh.printf("  mv <id> <stage>                    Move a ticket (todo|inprogress|done)\n")
	sh.printf("  filter [all|high|medium|low]       Show only one priority\n")
	sh.printf("  board                              Redraw the board\n")
	sh.printf("  ls                                 List visible tickets\n")
	sh.printf("  clear                              Delete every ticket (asks first)\n")
	sh.printf("  help                               Show this help\n")
	sh.printf("  exit / quit / q                    Exit\n")
}

// shellNotifier prints notices inline and asks for confirmation on the
// shell's own prompt.
type shellNotifier struct {
	sh *shell
}

var _ board.Notifier = (*shellNotifier)(nil)

func (n *shellNotifier) Warn(message string) {
	n.sh.warn(message)
}

func (n *shellNotifier) NotifyLimitReached() {
	n.sh.warn(limitNotice(n.sh.limit))
}

func (n *shellNotifier) Confirm(message string, onConfirm func()) {
	answer, err := n.sh.prompt(message + " (yes/no): ")
	if err != nil || !isYes(answer) {
		n.sh.printf("Cancelled.\n")

		return
	}

	onConfirm()
}
