package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/config"
)

var (
	initForce bool

	// configDirFunc is replaced in tests.
	configDirFunc = defaultConfigDir
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file and check the environment",
	Long: `Write $XDG_CONFIG_HOME/mailassist/config.yaml with the default settings,
check that a clipboard is reachable and that the catalog loads.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results := []initResult{
			createConfigFile(),
			checkPrerequisites(),
			checkCatalog(cmd.Context()),
		}

		if IsJSONOutput() || IsJSONLOutput() {
			out := make([]map[string]string, 0, len(results))
			for _, r := range results {
				out = append(out, map[string]string{"step": r.name, "status": r.status, "message": r.message})
			}
			return WriteOutput(os.Stdout, out)
		}

		failed := 0
		for _, r := range results {
			color := colorGreen
			switch r.status {
			case "skipped":
				color = colorYellow
			case "failed":
				color = colorRed
				failed++
			}
			fmt.Fprintf(os.Stdout, "%-8s %s: %s\n", colorize(r.status, color), r.name, r.message)
		}
		if failed > 0 {
			return fmt.Errorf("%d init step(s) failed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
}

type initResult struct {
	name    string
	status  string // done, skipped, failed
	message string
}

func defaultConfigDir() string {
	return config.ConfigDir()
}

func createConfigFile() initResult {
	result := initResult{name: "Config file"}
	dir := configDirFunc()
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil && !initForce {
		result.status = "skipped"
		result.message = fmt.Sprintf("%s already exists (use --force to overwrite)", path)
		return result
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.status = "failed"
		result.message = fmt.Sprintf("failed to create %s: %v", dir, err)
		return result
	}
	if err := atomic.WriteFile(path, strings.NewReader(configTemplate)); err != nil {
		result.status = "failed"
		result.message = fmt.Sprintf("failed to write %s: %v", path, err)
		return result
	}

	result.status = "done"
	result.message = "wrote " + path
	return result
}

// checkPrerequisites reports how copied text will reach the clipboard.
func checkPrerequisites() initResult {
	result := initResult{name: "Clipboard"}
	if clipboard.Unsupported {
		result.status = "skipped"
		result.message = "no system clipboard tool found (xclip, xsel, wl-copy); falling back to OSC 52 terminal copy"
		return result
	}
	result.status = "done"
	result.message = "system clipboard available"
	return result
}

func checkCatalog(ctx context.Context) initResult {
	result := initResult{name: "Catalog"}
	cat, err := catalog.Load(ctx, GetConfig().Catalog.Source, projectDir())
	if err != nil {
		result.status = "failed"
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) {
			result.message = loadErr.Error()
		} else {
			result.message = err.Error()
		}
		return result
	}
	if issues := catalog.Check(cat); len(issues) > 0 {
		result.status = "done"
		result.message = fmt.Sprintf("%s: %d templates, %d problem(s), run mailassist check", cat.Source, cat.Len(), len(issues))
		return result
	}
	result.status = "done"
	result.message = fmt.Sprintf("%s: %d templates", cat.Source, cat.Len())
	return result
}

const configTemplate = `# mailassist configuration file
# Every key can be overridden with MAILASSIST_<SECTION>_<KEY>, e.g. MAILASSIST_TUI_THEME.

catalog:
  # File path, http(s) URL or "builtin". Empty searches ./.mailassist/catalog.json,
  # ~/.config/mailassist/catalog.json and /usr/share/mailassist/catalog.json, then uses builtin.
  source: ""

link:
  # Origin and path of shareable links.
  base_url: "https://mailassist.app/"

prefs:
  # sqlite, file or memory
  backend: sqlite
  path: "~/.local/share/mailassist/mailassist.db"

clipboard:
  # auto, system or osc52
  mode: auto

tui:
  # default or high-contrast
  theme: default
  preview: true
  copied_for: 2s

logging:
  # trace, debug, info, warn, error, disabled
  level: info
  file: "~/.local/state/mailassist/mailassist.log"
`
