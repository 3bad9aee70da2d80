package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/i18n"
	"github.com/opencode-ai/mailassist/internal/validate"
)

var validateRequired bool

var variableTypes = []catalog.VariableType{
	catalog.TypeEmail,
	catalog.TypePhone,
	catalog.TypeDate,
	catalog.TypeTime,
	catalog.TypeNumber,
	catalog.TypeText,
}

var validateCmd = &cobra.Command{
	Use:   "validate <type> <value>",
	Short: "Check a value against a variable type",
	Long: `Check a value against a variable type (email, phone, date, time, number, text).
Exits with status 2 when the value is rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := parseVariableType(args[0])
		if err != nil {
			return err
		}
		result := validate.Validate(typ, validateRequired, args[1])

		bundle, err := i18n.Load()
		if err != nil {
			return err
		}
		message := bundle.Validation(interfaceLanguage(), result)

		if IsJSONOutput() || IsJSONLOutput() {
			if err := WriteOutput(os.Stdout, map[string]any{
				"type":     typ,
				"value":    args[1],
				"required": validateRequired,
				"valid":    result.Valid,
				"reason":   result.Reason,
				"message":  message,
			}); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(os.Stdout, "%s  %s\n", formatValidation(result), message)
		}

		if !result.Valid {
			return &ExitError{Code: exitInvalidFields, Err: fmt.Errorf("%s: %s", typ, message)}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateRequired, "required", false, "reject empty values")
}

func parseVariableType(value string) (catalog.VariableType, error) {
	normalized := catalog.VariableType(strings.ToLower(strings.TrimSpace(value)))
	for _, typ := range variableTypes {
		if typ == normalized {
			return typ, nil
		}
	}
	names := make([]string, len(variableTypes))
	for i, typ := range variableTypes {
		names[i] = string(typ)
	}
	return "", &PreflightError{
		Message: fmt.Sprintf("unknown variable type %q", value),
		Hint:    "Use one of " + strings.Join(names, ", "),
	}
}
