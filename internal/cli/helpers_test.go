package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testCatalogJSON = `{
  "variables": {
    "quoteNumber": {"type": "number", "required": true, "example": "1234"},
    "clientName": {"type": "text", "required": false, "example": "Marie"}
  },
  "templates": [
    {"id": "quote", "category": "Devis et estimations",
     "title": {"fr": "Devis", "en": "Quote"},
     "description": {"fr": "Envoyer un devis", "en": "Send a quote"},
     "subject": {"fr": "Devis #<<quoteNumber>>", "en": "Quote #<<quoteNumber>>"},
     "body": {"fr": "Bonjour <<clientName>>", "en": "Hello <<clientName>>"},
     "variables": ["quoteNumber", "clientName"]},
    {"id": "thanks", "category": "Communications générales",
     "title": {"fr": "Merci", "en": "Thanks"},
     "description": {"fr": "Remercier", "en": "Say thanks"},
     "subject": {"fr": "Merci", "en": "Thank you"},
     "body": {"fr": "Merci beaucoup", "en": "Thanks a lot"},
     "variables": []}
  ]
}`

// setupCLI isolates config, preferences and logs from the user's machine and
// returns the path of a catalog file holding body.
func setupCLI(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("MAILASSIST_CONFIG_FILE", "")
	t.Setenv("MAILASSIST_PREFS_BACKEND", "memory")
	t.Setenv("MAILASSIST_LOGGING_LEVEL", "disabled")
	t.Setenv("MAILASSIST_CLIPBOARD_MODE", "osc52")
	t.Setenv("LANG", "en_US.UTF-8")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")

	path := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

// runCLI executes the root command with args and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommandFlags(rootCmd)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	original := os.Stdout
	os.Stdout = w
	done := make(chan []byte)
	go func() {
		data, _ := io.ReadAll(r)
		done <- data
	}()

	rootCmd.SetArgs(args)
	runErr := rootCmd.ExecuteContext(context.Background())

	w.Close()
	os.Stdout = original
	out := <-done
	r.Close()
	return string(out), runErr
}

func resetCommandFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if slice, ok := f.Value.(pflag.SliceValue); ok {
			_ = slice.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetCommandFlags(child)
	}
}

func mustContain(t *testing.T, out, want string) {
	t.Helper()
	if !bytes.Contains([]byte(out), []byte(want)) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, out)
	}
}
