// SPDX-License-Identifier: EPL-2.0

//go:build linux || darwin

package main

import (
	"io"
	"os"
	"syscall"

	"github.com/pkg/term/termios"
)

// isTerminal reports whether w is a tty, by asking for its attributes.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	var attr syscall.Termios

	return termios.Tcgetattr(f.Fd(), &attr) == nil
}
