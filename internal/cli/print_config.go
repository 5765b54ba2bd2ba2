package cli

import (
	"context"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/kanban/internal/board"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *board.Config) *Command {
	flags := flag.NewFlagSet("print-config", flag.ContinueOnError)
	asJSON := flags.Bool("json", false, "Print the merged config file form as JSON")

	return &Command{
		Flags: flags,
		Usage: "print-config [--json]",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			if *asJSON {
				formatted, err := board.FormatConfig(*cfg)
				if err != nil {
					return err
				}

				io.Println(formatted)

				return nil
			}

			return execPrintConfig(io, cfg)
		},
	}
}

func execPrintConfig(io *IO, cfg *board.Config) error {
	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("board_dir=" + cfg.BoardDirAbs)
	io.Println("backend=" + cfg.Backend)
	io.Println("wip_limit=" + strconv.Itoa(cfg.WIPLimit))

	if cfg.LogFileAbs != "" {
		io.Println("log_level=" + cfg.LogLevel)
		io.Println("log_file=" + cfg.LogFileAbs)
	}

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}

	return nil
}
