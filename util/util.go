// Package util provides a collection of domain-agnostic utility functions and cross-platform helpers.
package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Quantify returns a pluralized string representation of a count and its associated labels.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintErasable prints an ephemeral message and returns a closure to clear it.
func PrintErasable(w io.Writer, msg string) (eraser func()) {
	fmt.Fprintf(w, "\r%s", msg)
	return func() {
		fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", len([]rune(msg))))
	}
}
