// Package cli provides helpers for interactive mode detection.
package cli

import (
	"os"

	"golang.org/x/term"
)

// IsNonInteractive reports whether the TUI must not be started: --non-interactive,
// MAILASSIST_NON_INTERACTIVE, or stdin/stdout not attached to a terminal.
func IsNonInteractive() bool {
	if nonInteractive {
		return true
	}
	if _, ok := os.LookupEnv("MAILASSIST_NON_INTERACTIVE"); ok {
		return true
	}
	return !hasTTY()
}

// IsInteractive reports whether the session can drive the TUI.
func IsInteractive() bool {
	return !IsNonInteractive()
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// requireInteractive fails with a hint pointing at the scriptable commands.
func requireInteractive(action string) error {
	if IsInteractive() {
		return nil
	}
	return &PreflightError{
		Message:  action + " needs an interactive terminal",
		Hint:     "Use render or copy in scripts",
		NextStep: "mailassist render <id> --var name=value",
	}
}
