// Package cli provides progress output helpers for slow steps such as
// fetching a remote catalog.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"
)

var progressOut io.Writer = os.Stderr

type progressStep struct {
	started time.Time
}

// startProgress prints label on stderr and returns a step to finish it.
// It returns nil when progress output is disabled; a nil step is a no-op.
func startProgress(label string) *progressStep {
	if !progressEnabled() {
		return nil
	}
	fmt.Fprintf(progressOut, "%s... ", label)
	return &progressStep{started: time.Now()}
}

// Done ends the line, with an optional detail such as "12 templates".
func (p *progressStep) Done(detail ...string) {
	if p == nil {
		return
	}
	elapsed := formatDuration(time.Since(p.started))
	if len(detail) > 0 && detail[0] != "" {
		fmt.Fprintf(progressOut, "%s (%s)\n", detail[0], elapsed)
		return
	}
	fmt.Fprintf(progressOut, "done (%s)\n", elapsed)
}

func (p *progressStep) Fail(err error) {
	if p == nil {
		return
	}
	if err != nil {
		fmt.Fprintf(progressOut, "failed: %v\n", err)
		return
	}
	fmt.Fprintln(progressOut, "failed")
}

// progressEnabled is false for machine-readable output, for pipes and when
// MAILASSIST_NO_PROGRESS or NO_PROGRESS is set.
func progressEnabled() bool {
	if IsJSONOutput() || IsJSONLOutput() || noProgress {
		return false
	}
	for _, name := range []string{"MAILASSIST_NO_PROGRESS", "NO_PROGRESS"} {
		if _, ok := os.LookupEnv(name); ok {
			return false
		}
	}
	return hasTTY()
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
