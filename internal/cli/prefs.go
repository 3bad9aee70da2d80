package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect or clear stored preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openPrefs(cmd.Context())
		defer store.Close()
		p := store.Load(cmd.Context())

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, p)
		}

		cfg := GetConfig()
		rows := [][]string{
			{"backend", cfg.Prefs.Backend},
			{"path", dashIfEmpty(cfg.Prefs.Path)},
			{"interface language", string(p.InterfaceLanguage)},
			{"template language", string(p.TemplateLanguage)},
			{"search", dashIfEmpty(p.SearchQuery)},
			{"category", p.SelectedCategory},
		}
		if err := writeTable(os.Stdout, []string{"KEY", "VALUE"}, rows); err != nil {
			return err
		}

		if len(p.VariableBindings) == 0 {
			return nil
		}
		names := make([]string, 0, len(p.VariableBindings))
		for name := range p.VariableBindings {
			names = append(names, name)
		}
		sort.Strings(names)
		bindings := make([][]string, 0, len(names))
		for _, name := range names {
			bindings = append(bindings, []string{name, p.VariableBindings[name]})
		}
		fmt.Fprintln(os.Stdout)
		return writeTable(os.Stdout, []string{"VARIABLE", "VALUE"}, bindings)
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openPrefs(cmd.Context())
		defer store.Close()
		if err := store.Reset(cmd.Context()); err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, map[string]bool{"reset": true})
		}
		fmt.Fprintln(os.Stdout, "Preferences cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsResetCmd)
}
