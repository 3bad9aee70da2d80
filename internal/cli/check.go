package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/mailassist/internal/catalog"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the catalog for consistency problems",
	Long: `Report duplicate template ids, references to unregistered variables,
placeholders missing from a template's variable list, missing translations
and registry entries with an unknown type. Exits non-zero when problems exist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog(cmd.Context())
		if err != nil {
			return err
		}
		issues := catalog.Check(cat)

		if IsJSONOutput() || IsJSONLOutput() {
			if issues == nil {
				issues = []catalog.Issue{}
			}
			if err := WriteOutput(os.Stdout, checkReport{Source: cat.Source, Templates: cat.Len(), Issues: issues}); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(os.Stdout, "Catalog: %s (%d templates, %d variables)\n", cat.Source, cat.Len(), len(cat.Variables))
			if len(issues) == 0 {
				fmt.Fprintln(os.Stdout, colorize("No problems found", colorGreen))
				return nil
			}
			rows := make([][]string, 0, len(issues))
			for _, issue := range issues {
				rows = append(rows, []string{formatIssueKind(issue.Kind), dashIfEmpty(issue.TemplateID), dashIfEmpty(issue.Variable), issue.Detail})
			}
			if err := writeTable(os.Stdout, []string{"STATUS", "TEMPLATE", "VARIABLE", "DETAIL"}, rows); err != nil {
				return err
			}
		}

		if len(issues) > 0 {
			return &ExitError{Code: 1, Err: fmt.Errorf("catalog has %d problem(s)", len(issues))}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

type checkReport struct {
	Source    string          `json:"source"`
	Templates int             `json:"templates"`
	Issues    []catalog.Issue `json:"issues"`
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
