package report

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
)

// DetectTerminalSize returns the current terminal dimensions. It tries the
// TTY first, then the COLUMNS/LINES environment variables, and settles on
// 80x24 when neither answers.
func DetectTerminalSize() (width, height int) {
	w, h, err := term.GetSize(os.Stdout.Fd())
	if err == nil && w > 0 && h > 0 {
		return w, h
	}

	return envDimension("COLUMNS", 80), envDimension("LINES", 24)
}

// envDimension parses a positive integer from the named environment
// variable, falling back when it is unset or malformed.
func envDimension(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
