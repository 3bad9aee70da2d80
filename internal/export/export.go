// Package export assembles resolved text and delivers it to the clipboard or a shareable link.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Part names which piece of the message to export.
type Part string

// Exportable parts.
const (
	PartSubject Part = "subject"
	PartBody    Part = "body"
	PartAll     Part = "all"
)

// Parts lists the exportable parts.
var Parts = []Part{PartSubject, PartBody, PartAll}

// ErrUnknownPart is returned for a part outside Parts.
var ErrUnknownPart = errors.New("unknown export part")

// ParsePart converts a flag value to a Part.
func ParsePart(value string) (Part, error) {
	for _, part := range Parts {
		if string(part) == value {
			return part, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPart, value)
}

// Assemble returns the text for part. PartAll is the subject, a blank line, then the body.
func Assemble(part Part, subject, body string) (string, error) {
	switch part {
	case PartSubject:
		return subject, nil
	case PartBody:
		return body, nil
	case PartAll:
		return subject + "\n\n" + body, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPart, part)
	}
}

// Exporter copies resolved text through a Clipboard.
type Exporter struct {
	clipboard Clipboard
	logger    zerolog.Logger
}

// NewExporter returns an Exporter writing to clipboard.
func NewExporter(clipboard Clipboard, logger zerolog.Logger) *Exporter {
	return &Exporter{clipboard: clipboard, logger: logger}
}

// Clipboard returns the strategy in use.
func (e *Exporter) Clipboard() Clipboard {
	return e.clipboard
}

// Copy writes the assembled part to the clipboard and returns the copied text.
// Failures are returned as *ClipboardError and are not retried.
func (e *Exporter) Copy(ctx context.Context, part Part, subject, body string) (string, error) {
	text, err := Assemble(part, subject, body)
	if err != nil {
		return "", err
	}
	if err := e.write(ctx, "copy "+string(part), text); err != nil {
		return "", err
	}
	return text, nil
}

// CopyLink writes a shareable link to the clipboard.
func (e *Exporter) CopyLink(ctx context.Context, link string) error {
	return e.write(ctx, "copy link", link)
}

func (e *Exporter) write(ctx context.Context, op, text string) error {
	if err := e.clipboard.WriteText(ctx, text); err != nil {
		var clipErr *ClipboardError
		if !errors.As(err, &clipErr) {
			clipErr = &ClipboardError{Op: op, Err: err}
		}
		e.logger.Warn().Err(clipErr).Str("clipboard", e.clipboard.Name()).Msg("clipboard write failed")
		return clipErr
	}
	e.logger.Debug().Str("op", op).Str("clipboard", e.clipboard.Name()).Int("bytes", len(text)).Msg("copied")
	return nil
}
