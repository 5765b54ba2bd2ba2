package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/kanban/internal/cli"
)

func TestCreateCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantExit   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "creates ticket with default priority",
			args:       []string{"create", "Fix bug"},
			wantStdout: "ticket1\n",
		},
		{
			name:       "joins words into title",
			args:       []string{"create", "-p", "high", "Fix", "the", "bug"},
			wantStdout: "ticket1\n",
		},
		{
			name:       "rejects blank title",
			args:       []string{"create", "   "},
			wantExit:   1,
			wantStderr: "warning: enter a title for the ticket",
		},
		{
			name:       "rejects missing title",
			args:       []string{"create"},
			wantExit:   1,
			wantStderr: "warning: enter a title for the ticket",
		},
		{
			name:       "rejects unknown priority",
			args:       []string{"create", "-p", "urgent", "Fix bug"},
			wantExit:   1,
			wantStderr: "invalid priority",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stdout, stderr, exitCode := c.Run(tt.args...)

			if got, want := exitCode, tt.wantExit; got != want {
				t.Errorf("exitCode=%d, want=%d (stderr=%q)", got, want, stderr)
			}

			if tt.wantStdout != "" || tt.wantExit != 0 {
				if got, want := stdout, tt.wantStdout; got != want {
					t.Errorf("stdout=%q, want=%q", got, want)
				}
			}

			if tt.wantStderr != "" {
				cli.AssertContains(t, stderr, tt.wantStderr)
			}
		})
	}
}

func Test_Create_Persists_Wire_Format_When_File_Backend(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", "-p", "low", "Write docs")

	content := c.ReadBoardFile()

	cli.AssertContains(t, content, `"kanbanTickets"`)
	cli.AssertContains(t, content, `"kanbanContador": "2"`)
	cli.AssertContains(t, content, `\"titulo\":\"Write docs\"`)
	cli.AssertContains(t, content, `\"prioridad\":\"Baja\"`)
	cli.AssertContains(t, content, `\"columna\":\"todo\"`)
}

func TestMoveCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      [][]string
		args       []string
		wantExit   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "moves todo to in progress",
			setup:      [][]string{{"create", "A"}},
			args:       []string{"move", "ticket1", "inprogress"},
			wantStdout: "Moved ticket1 to In Progress",
		},
		{
			name:       "accepts loose stage spelling",
			setup:      [][]string{{"create", "A"}},
			args:       []string{"move", "ticket1", "In-Progress"},
			wantStdout: "Moved ticket1 to In Progress",
		},
		{
			name:       "moves in progress back to todo",
			setup:      [][]string{{"create", "A"}, {"move", "ticket1", "inprogress"}},
			args:       []string{"move", "ticket1", "todo"},
			wantStdout: "Moved ticket1 to To Do",
		},
		{
			name:       "denies todo to done",
			setup:      [][]string{{"create", "A"}},
			args:       []string{"move", "ticket1", "done"},
			wantExit:   1,
			wantStderr: "cannot move ticket1 from To Do to Done: must pass through In Progress",
		},
		{
			name:       "denies done to todo",
			setup:      [][]string{{"create", "A"}, {"move", "ticket1", "inprogress"}, {"move", "ticket1", "done"}},
			args:       []string{"move", "ticket1", "todo"},
			wantExit:   1,
			wantStderr: "cannot revert a finished ticket to To Do",
		},
		{
			name:       "denies done to in progress",
			setup:      [][]string{{"create", "A"}, {"move", "ticket1", "inprogress"}, {"move", "ticket1", "done"}},
			args:       []string{"move", "ticket1", "inprogress"},
			wantExit:   1,
			wantStderr: "cannot reopen a finished ticket",
		},
		{
			name:       "same stage is a no-op",
			setup:      [][]string{{"create", "A"}},
			args:       []string{"move", "ticket1", "todo"},
			wantStdout: "ticket1 is already in To Do",
		},
		{
			name:       "unknown ticket warns",
			args:       []string{"move", "ticket9", "inprogress"},
			wantExit:   1,
			wantStderr: "ticket not found: ticket9",
		},
		{
			name:       "unknown stage is an error",
			setup:      [][]string{{"create", "A"}},
			args:       []string{"move", "ticket1", "later"},
			wantExit:   1,
			wantStderr: "invalid stage",
		},
		{
			name:       "wrong arg count is an error",
			args:       []string{"move", "ticket1"},
			wantExit:   1,
			wantStderr: "expected <id> <stage>",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			for _, args := range tt.setup {
				c.MustRun(args...)
			}

			stdout, stderr, exitCode := c.Run(tt.args...)

			if got, want := exitCode, tt.wantExit; got != want {
				t.Errorf("exitCode=%d, want=%d (stderr=%q)", got, want, stderr)
			}

			if got, want := strings.TrimSpace(stdout), tt.wantStdout; got != want {
				t.Errorf("stdout=%q, want=%q", got, want)
			}

			if tt.wantStderr != "" {
				cli.AssertContains(t, stderr, tt.wantStderr)
			}
		})
	}
}

func Test_Move_Enforces_WIP_Limit_When_In_Progress_Full(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	for i := 1; i <= 6; i++ {
		c.MustRun("create", "Ticket")
	}

	for _, id := range []string{"ticket1", "ticket2", "ticket3", "ticket4", "ticket5"} {
		c.MustRun("move", id, "inprogress")
	}

	stderr := c.MustFail("move", "ticket6", "inprogress")
	cli.AssertContains(t, stderr, "In Progress is full (limit 5 tickets)")

	// Freeing a slot lets the next ticket in.
	c.MustRun("move", "ticket1", "done")
	c.MustRun("move", "ticket6", "inprogress")

	stdout := c.MustRun("ls", "--stage", "inprogress")
	assert.Equal(t, 5, len(strings.Split(stdout, "\n")))
}

func Test_Move_Uses_Configured_WIP_Limit_When_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteConfig(`{"wip_limit": 1}`)

	c.MustRun("create", "A")
	c.MustRun("create", "B")
	c.MustRun("move", "ticket1", "inprogress")

	stderr := c.MustFail("move", "ticket2", "inprogress")
	cli.AssertContains(t, stderr, "limit 1 tickets")
}

func TestRemoveCommand(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", "A")
	c.MustRun("create", "B")

	stdout := c.MustRun("rm", "ticket1", "ticket7")
	cli.AssertContains(t, stdout, "Deleted ticket1")
	cli.AssertContains(t, stdout, "No ticket ticket7, nothing deleted")

	if got, want := c.MustRun("ls"), "ticket2 [todo] (Medium) B"; got != want {
		t.Errorf("ls=%q, want=%q", got, want)
	}

	// IDs are not reused after a delete.
	if got, want := c.MustRun("create", "C"), "ticket3"; got != want {
		t.Errorf("id=%q, want=%q", got, want)
	}

	stderr := c.MustFail("rm")
	cli.AssertContains(t, stderr, "ticket ID is required")
}

func TestListCommand(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", "-p", "high", "A")
	c.MustRun("create", "-p", "low", "B")
	c.MustRun("create", "-p", "high", "C")
	c.MustRun("move", "ticket1", "inprogress")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "lists all in board order",
			args: []string{"ls"},
			want: []string{
				"ticket2 [todo] (Low) B",
				"ticket3 [todo] (High) C",
				"ticket1 [inprogress] (High) A",
			},
		},
		{
			name: "filters by priority",
			args: []string{"ls", "--priority", "high"},
			want: []string{
				"ticket3 [todo] (High) C",
				"ticket1 [inprogress] (High) A",
			},
		},
		{
			name: "filters by stage",
			args: []string{"ls", "--stage", "todo", "-p", "low"},
			want: []string{"ticket2 [todo] (Low) B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Split(c.MustRun(tt.args...), "\n")
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Board_Counts_Ignore_Filter_When_Priority_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", "-p", "high", "Alpha")
	c.MustRun("create", "-p", "low", "Beta")
	c.MustRun("move", "ticket1", "inprogress")

	stdout := c.MustRun("board", "--priority", "low")

	cli.AssertContains(t, stdout, "To Do (1)")
	cli.AssertContains(t, stdout, "In Progress (1)")
	cli.AssertContains(t, stdout, "Done (0)")
	cli.AssertContains(t, stdout, "#2 Beta")
	cli.AssertNotContains(t, stdout, "Alpha")
	cli.AssertContains(t, stdout, "Filter: Low (1 hidden)")
}

func Test_Board_Shows_Empty_Columns_When_No_Tickets(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("board")

	cli.AssertContains(t, stdout, "To Do (0)")
	cli.AssertContains(t, stdout, "(empty)")
	cli.AssertNotContains(t, stdout, "Filter:")
}

func TestClearCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		stdin       *string
		args        []string
		wantExit    int
		wantStdout  string
		wantStderr  string
		wantCleared bool
	}{
		{
			name:        "clears with yes flag",
			args:        []string{"clear", "--yes"},
			wantStdout:  "Board cleared",
			wantCleared: true,
		},
		{
			name:        "clears after confirming on stdin",
			stdin:       ptr("yes\n"),
			args:        []string{"clear"},
			wantStdout:  "Board cleared",
			wantStderr:  "Delete all tickets from the board? (yes/no):",
			wantCleared: true,
		},
		{
			name:       "keeps tickets when declined",
			stdin:      ptr("n\n"),
			args:       []string{"clear"},
			wantStdout: "Cancelled.",
		},
		{
			name:       "keeps tickets on empty input",
			stdin:      ptr(""),
			args:       []string{"clear"},
			wantStdout: "Cancelled.",
		},
		{
			name:       "warns without stdin",
			args:       []string{"clear"},
			wantExit:   1,
			wantStderr: "confirmation required, re-run with --yes",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.MustRun("create", "A")
			c.MustRun("create", "B")

			var (
				stdout, stderr string
				exitCode       int
			)

			if tt.stdin != nil {
				stdout, stderr, exitCode = c.RunWithInput(*tt.stdin, tt.args...)
			} else {
				stdout, stderr, exitCode = c.Run(tt.args...)
			}

			if got, want := exitCode, tt.wantExit; got != want {
				t.Errorf("exitCode=%d, want=%d (stderr=%q)", got, want, stderr)
			}

			if got, want := strings.TrimSpace(stdout), tt.wantStdout; got != want {
				t.Errorf("stdout=%q, want=%q", got, want)
			}

			if tt.wantStderr != "" {
				cli.AssertContains(t, stderr, tt.wantStderr)
			}

			ls := c.MustRun("ls")
			if tt.wantCleared {
				assert.Empty(t, ls)
			} else {
				assert.Len(t, strings.Split(ls, "\n"), 2)
			}
		})
	}
}

func Test_Clear_Keeps_Counter_When_Board_Cleared(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", "A")
	c.MustRun("create", "B")
	c.MustRun("clear", "-y")

	content := c.ReadBoardFile()
	cli.AssertNotContains(t, content, "kanbanTickets")
	cli.AssertContains(t, content, `"kanbanContador": "3"`)

	if got, want := c.MustRun("create", "C"), "ticket3"; got != want {
		t.Errorf("id=%q, want=%q", got, want)
	}
}

func Test_Clear_Warns_When_Board_Empty(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("clear", "--yes")

	cli.AssertContains(t, stderr, "there are no tickets on the board, create one first")
}

func TestExportCommand(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", "-p", "high", "Fix bug")
	c.MustRun("create", "Write docs")
	c.MustRun("move", "ticket1", "inprogress")

	t.Run("json", func(t *testing.T) {
		stdout := c.MustRun("export")

		cli.AssertContains(t, stdout, `"next": 3`)
		cli.AssertContains(t, stdout, `"inprogress": 1`)
		cli.AssertContains(t, stdout, `"title": "Fix bug"`)
		cli.AssertContains(t, stdout, `"priority": "High"`)
	})

	t.Run("yaml", func(t *testing.T) {
		stdout := c.MustRun("export", "--format", "yaml")

		cli.AssertContains(t, stdout, "next: 3")
		cli.AssertContains(t, stdout, "id: ticket2")
		cli.AssertContains(t, stdout, "stage: inprogress")
	})

	t.Run("unknown format", func(t *testing.T) {
		stderr := c.MustFail("export", "-f", "xml")
		cli.AssertContains(t, stderr, "unknown format")
	})
}

func Test_Backends_Persist_Board_When_Selected(t *testing.T) {
	t.Parallel()

	for _, backend := range []string{"file", "sqlite", "badger"} {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.MustRun("--backend", backend, "create", "-p", "low", "Persisted")
			c.MustRun("--backend", backend, "move", "ticket1", "inprogress")

			if got, want := c.MustRun("--backend="+backend, "ls"), "ticket1 [inprogress] (Low) Persisted"; got != want {
				t.Errorf("ls=%q, want=%q", got, want)
			}
		})
	}
}

func Test_Board_Dir_Flag_Relocates_Storage_When_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("--board-dir", "elsewhere", "create", "A")

	_, err := os.Stat(filepath.Join(c.Dir, "elsewhere", "board.json"))
	require.NoError(t, err)

	assert.Empty(t, c.MustRun("ls"))
}

func Test_Log_File_Written_When_Log_Level_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteConfig(`{"log_level": "debug"}`)

	c.MustRun("create", "A")

	content, err := os.ReadFile(filepath.Join(c.BoardDir(), "kb.log"))
	require.NoError(t, err)

	cli.AssertContains(t, string(content), `"msg":"ticket created"`)
	cli.AssertContains(t, string(content), `"id":"ticket1"`)
}

func ptr(s string) *string {
	return &s
}
