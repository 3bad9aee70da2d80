// Package cli implements the mailassist command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opencode-ai/mailassist/internal/config"
	"github.com/opencode-ai/mailassist/internal/logging"
)

// Build information, set with -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	configFile     string
	logLevel       string
	jsonOutput     bool
	jsonlOutput    bool
	nonInteractive bool
	noProgress     bool
	noColor        bool
	catalogSource  string

	appConfig *config.Config
	appViper  *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "mailassist",
	Short: "Fill in email templates from the terminal",
	Long: `mailassist picks an email template from a catalog, fills its <<variables>>,
validates them and copies the result to the clipboard.

Run without a subcommand to open the interactive editor.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && IsNonInteractive() {
			return cmd.Help()
		}
		link := ""
		if len(args) == 1 {
			link = args[0]
		}
		return runTUI(cmd.Context(), link)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/mailassist/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	flags.BoolVar(&jsonOutput, "json", false, "output JSON")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "output JSON lines")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never prompt or open the TUI")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress output")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.StringVar(&catalogSource, "catalog", "", `catalog file, URL or "builtin"`)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Main runs the CLI and returns the process exit code.
func Main(ctx context.Context, args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	err := Execute(ctx)
	_ = logging.Close()
	if err == nil {
		return 0
	}
	printError(stderr, err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func initConfig(cmd *cobra.Command) error {
	appViper = config.New(configFile)
	if f := cmd.Flags().Lookup("catalog"); f != nil && f.Changed {
		appViper.Set("catalog.source", catalogSource)
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		appViper.Set("logging.level", logLevel)
	}

	cfg, err := config.Load(appViper)
	if err != nil {
		return &PreflightError{
			Message:  err.Error(),
			Hint:     "Fix the config file or the MAILASSIST_* environment variables",
			NextStep: "mailassist init --force",
		}
	}
	appConfig = cfg

	logCfg := logging.Config{Level: cfg.Logging.Level, File: cfg.Logging.File, JSON: IsJSONOutput() || IsJSONLOutput()}
	if cmd.Name() != "ui" && cmd.HasParent() {
		// One-shot commands log to stderr; the TUI owns the terminal and logs to the file.
		logCfg.File = ""
		logCfg.Console = os.Stderr
		if logLevel == "" && os.Getenv(config.EnvPrefix+"_LOGGING_LEVEL") == "" {
			logCfg.Level = "warn"
		}
	}
	return logging.Init(logCfg)
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

// IsJSONOutput reports whether --json was given.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsJSONLOutput reports whether --jsonl was given.
func IsJSONLOutput() bool {
	return jsonlOutput
}

// PreflightError reports a problem detected before any work started, with a
// hint and a next step for the user.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	return e.Message
}

// ExitError carries a specific exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func printError(w io.Writer, err error) {
	if IsJSONOutput() || IsJSONLOutput() {
		payload := map[string]string{"error": err.Error()}
		var preflight *PreflightError
		if errors.As(err, &preflight) {
			payload["hint"] = preflight.Hint
			payload["next_step"] = preflight.NextStep
		}
		_ = WriteOutput(w, payload)
		return
	}

	fmt.Fprintln(w, colorize("Error: "+err.Error(), colorRed))
	var preflight *PreflightError
	if errors.As(err, &preflight) {
		if hint := strings.TrimSpace(preflight.Hint); hint != "" {
			fmt.Fprintf(w, "Hint: %s\n", hint)
		}
		if next := strings.TrimSpace(preflight.NextStep); next != "" {
			fmt.Fprintf(w, "Next: %s\n", next)
		}
	}
}
