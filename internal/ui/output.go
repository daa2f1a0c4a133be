package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects OK/Fail/Info; nil keeps the current writer.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Stdout is where regular output goes.
func Stdout() io.Writer { return stdout }

func OK(msg string) {
	t := Current()
	fmt.Fprintln(stdout, t.Success.Render(t.SymDone+" "+msg))
}

func Fail(msg string) {
	t := Current()
	fmt.Fprintln(stderr, t.Error.Render(t.SymCross+" "+msg))
}

func Info(msg string) {
	fmt.Fprintln(stdout, Current().Muted.Render(msg))
}

// Hint prints a muted follow-up line on the error stream.
func Hint(msg string) {
	fmt.Fprintln(stderr, Current().Muted.Render(msg))
}
