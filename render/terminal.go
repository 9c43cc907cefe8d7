// Package render formats document lines and controls the terminal.
package render

import (
	"os"

	"golang.org/x/sys/unix"
)

const (
	// Reset is the full terminal reset sequence (ESC c) used by the c command.
	Reset       = "\033c"
	ClearScreen = "\033[2J"
	CursorHome  = "\033[H"
)

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), ioctlGetTermios)
	return err == nil
}
