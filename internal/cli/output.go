// Package cli provides JSON and colored output helpers.
package cli

import (
	"fmt"
	"io"
	"os"
	"reflect"

	json "github.com/goccy/go-json"
	"golang.org/x/term"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// WriteOutput encodes v as indented JSON, or as one compact line per element
// when --jsonl is set and v is a slice.
func WriteOutput(w io.Writer, v any) error {
	if IsJSONLOutput() {
		return writeJSONLines(w, v)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeJSONLines(w io.Writer, v any) error {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Slice && value.Kind() != reflect.Array {
		return writeJSONLine(w, v)
	}
	for i := 0; i < value.Len(); i++ {
		if err := writeJSONLine(w, value.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func colorEnabled() bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func colorize(text, color string) string {
	if !colorEnabled() || color == "" {
		return text
	}
	return color + text + colorReset
}
