package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/opencode-ai/mailassist/internal/config"
)

// ClipboardError reports a failed clipboard write. There is no automatic retry;
// the user is expected to copy the text by hand.
type ClipboardError struct {
	Op  string
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// ErrClipboardUnavailable is returned when no clipboard mechanism exists.
var ErrClipboardUnavailable = errors.New("no system clipboard available")

// Clipboard writes text somewhere the user can paste it from.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
	Name() string
}

// SystemClipboard uses the platform clipboard (pbcopy, xclip, xsel, wl-copy, Windows API).
type SystemClipboard struct{}

// Name implements Clipboard.
func (SystemClipboard) Name() string { return config.ClipboardSystem }

// WriteText implements Clipboard.
func (SystemClipboard) WriteText(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	done := make(chan error, 1)
	go func() {
		done <- clipboard.WriteAll(text)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OSC52Clipboard asks the terminal to set its clipboard with an OSC 52 escape sequence.
type OSC52Clipboard struct {
	Out    io.Writer
	Getenv func(string) string
}

// Name implements Clipboard.
func (OSC52Clipboard) Name() string { return config.ClipboardOSC52 }

// WriteText implements Clipboard.
func (c OSC52Clipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out := c.Out
	if out == nil {
		out = os.Stderr
	}
	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	seq := osc52.New(text)
	switch {
	case getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(out)
	return err
}

// NewClipboard returns the strategy for mode. Auto prefers the system clipboard
// and falls back to OSC 52 on out.
func NewClipboard(mode string, out io.Writer) (Clipboard, error) {
	switch mode {
	case config.ClipboardSystem:
		return SystemClipboard{}, nil
	case config.ClipboardOSC52:
		return OSC52Clipboard{Out: out}, nil
	case config.ClipboardAuto, "":
		if !clipboard.Unsupported {
			return SystemClipboard{}, nil
		}
		return OSC52Clipboard{Out: out}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard mode %q", mode)
	}
}
