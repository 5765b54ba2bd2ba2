package cli

import (
	"fmt"
	"io"
)

// IO handles command output with warning visibility.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	warnings []string
	started  bool
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Warn records a user-facing warning, such as a rejected move.
//
// Warnings are printed to stderr at both the START and END of output,
// so they stay visible when output is piped through head or tail.
// Any warning makes the command exit with code 1.
//
// Output to stdout (via Println) still occurs - warnings don't suppress
// normal output.
func (o *IO) Warn(message string) {
	o.warnings = append(o.warnings, message)
}

// Warnings returns the warnings recorded so far.
func (o *IO) Warnings() []string {
	return o.warnings
}

// Out returns the stdout writer.
func (o *IO) Out() io.Writer {
	return o.out
}

// Println writes to stdout. On first call, any collected warnings
// are printed to stderr first.
func (o *IO) Println(a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout. On first call, any collected
// warnings are printed to stderr first.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes to stderr immediately.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// ErrPrintf writes formatted output to stderr immediately.
func (o *IO) ErrPrintf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.errOut, format, a...)
}

// Finish prints warnings to stderr and returns exit code.
// Returns 1 if any warnings, 0 otherwise.
func (o *IO) Finish() int {
	// If no output happened but we have warnings, print them at "start" position
	o.flushWarningsStart()

	// Always print at end
	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}

func (o *IO) flushWarningsStart() {
	if !o.started && len(o.warnings) > 0 {
		for _, w := range o.warnings {
			_, _ = fmt.Fprintln(o.errOut, "warning:", w)
		}

		o.started = true
	}
}
