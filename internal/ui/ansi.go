package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// isTerminal reports whether w is a file attached to a terminal. Buffers
// and pipes are not.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func colorFor(w io.Writer, color, s string) string {
	if disableColor {
		return s
	}
	if forceColor || isTerminal(w) {
		return color + s + reset
	}
	return s
}

// C colors s for output on stdout.
func C(color, s string) string { return colorFor(os.Stdout, color, s) }

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, colorFor(w, current.Success, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, colorFor(w, current.Error, symCross+" "+msg)) }
