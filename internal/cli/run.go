package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/calvinalkan/kanban/internal/board"
)

const (
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

var (
	errFlagRequiresArg = errors.New("flag requires an argument")
	errUnknownFlag     = errors.New("unknown flag")
	errUnknownCommand  = errors.New("unknown command")
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. A signal on it cancels the running command.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	flags, err := parseGlobalFlags(args[min(1, len(args)):])
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, nil)

		return 1
	}

	cfg, err := board.LoadConfig(board.LoadConfigInput{
		WorkDirOverride:  flags.workDir,
		ConfigPath:       flags.configPath,
		BoardDirOverride: flags.boardDir,
		BackendOverride:  flags.backend,
		Env:              env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer closeLog()

	a := &app{cfg: cfg, log: logger, in: in}
	commands := []*Command{
		CreateCmd(a),
		RemoveCmd(a),
		MoveCmd(a),
		ListCmd(a),
		BoardCmd(a),
		ClearCmd(a),
		ExportCmd(a),
		ShellCmd(a),
		PrintConfigCmd(&a.cfg),
	}

	if len(flags.remaining) == 0 || flags.remaining[0] == "-h" || flags.remaining[0] == helpFlag {
		printUsage(out, commands)

		return 0
	}

	name := flags.remaining[0]

	var cmd *Command

	for _, c := range commands {
		if c.Matches(name) {
			cmd = c

			break
		}
	}

	if cmd == nil {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", errUnknownCommand, name))
		printUsage(errOut, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	logger.Debug("command started", zap.String("command", cmd.Name()))

	return cmd.Run(ctx, NewIO(out, errOut), flags.remaining[1:])
}

type globalFlags struct {
	workDir    string
	configPath string
	boardDir   string
	backend    string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if (arg == "-C" || arg == "--cwd") && idx+1 < len(args) {
		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if len(arg) > 2 && strings.HasPrefix(arg, "-C") {
		flags.workDir = arg[2:]

		return consumedOne, nil
	}

	for _, f := range []struct {
		short, long string
		dst         *string
	}{
		{"-c", "--config", &flags.configPath},
		{"", "--board-dir", &flags.boardDir},
		{"", "--backend", &flags.backend},
	} {
		if arg == f.long || (f.short != "" && arg == f.short) {
			if idx+1 >= len(args) {
				return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
			}

			*f.dst = args[idx+1]

			return consumedTwo, nil
		}

		if after, ok := strings.CutPrefix(arg, f.long+"="); ok {
			*f.dst = after

			return consumedOne, nil
		}
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", errUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, `kb - kanban board for the terminal

Usage: kb [options] <command> [args]

Options:
  -C, --cwd <dir>         Run as if started in <dir>
  -c, --config <file>     Use specified config file
      --board-dir <dir>   Override the board directory
      --backend <name>    Storage backend: file|sqlite|badger
  -h, --help              Show help`)

	if len(commands) == 0 {
		return
	}

	fprintln(w)
	fprintln(w, "Commands:")

	for _, c := range commands {
		fprintln(w, c.HelpLine())
	}
}
