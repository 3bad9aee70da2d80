package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/mailassist/internal/catalog"
)

var showLang string

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a template and its variables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := parseLang(showLang, catalog.LangFR)
		if err != nil {
			return err
		}
		cat, err := openCatalog(cmd.Context())
		if err != nil {
			return err
		}
		tmpl, ok := cat.Find(args[0])
		if !ok {
			return &PreflightError{
				Message:  fmt.Sprintf("template %q not found", args[0]),
				Hint:     "List the available templates",
				NextStep: "mailassist list",
			}
		}

		detail := describeTemplate(cat, tmpl, lang)
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, detail)
		}

		fmt.Fprintf(os.Stdout, "%s  %s\n", detail.ID, detail.Title)
		fmt.Fprintf(os.Stdout, "Category: %s\n", detail.Category)
		if detail.Description != "" {
			fmt.Fprintf(os.Stdout, "%s\n", detail.Description)
		}
		fmt.Fprintf(os.Stdout, "\nSubject: %s\n\n%s\n", detail.Subject, detail.Body)
		if len(detail.Variables) == 0 {
			return nil
		}
		fmt.Fprintln(os.Stdout)
		rows := make([][]string, 0, len(detail.Variables))
		for _, v := range detail.Variables {
			typ := v.Type
			if !v.Registered {
				typ = "(unregistered)"
			}
			rows = append(rows, []string{v.Name, typ, formatYesNo(v.Required), v.Example})
		}
		return writeTable(os.Stdout, []string{"VARIABLE", "TYPE", "REQUIRED", "EXAMPLE"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showLang, "lang", "", "template language (fr or en)")
}

type variableDetail struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Required    bool   `json:"required"`
	Example     string `json:"example,omitempty"`
	Description string `json:"description,omitempty"`
	Registered  bool   `json:"registered"`
}

type templateDetail struct {
	ID          string           `json:"id"`
	Category    string           `json:"category"`
	Lang        catalog.Lang     `json:"lang"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Subject     string           `json:"subject"`
	Body        string           `json:"body"`
	Variables   []variableDetail `json:"variables"`
}

func describeTemplate(cat *catalog.Catalog, tmpl *catalog.Template, lang catalog.Lang) templateDetail {
	detail := templateDetail{
		ID:          tmpl.ID,
		Category:    tmpl.Category,
		Lang:        lang,
		Title:       tmpl.Title.Get(lang),
		Description: strings.TrimSpace(tmpl.Description.Get(lang)),
		Subject:     tmpl.Text(catalog.FieldSubject, lang),
		Body:        tmpl.Text(catalog.FieldBody, lang),
		Variables:   make([]variableDetail, 0, len(tmpl.Variables)),
	}
	for _, name := range tmpl.Variables {
		v := variableDetail{Name: name}
		if def, ok := cat.Variable(name); ok {
			v.Registered = true
			v.Type = string(def.Type)
			v.Required = def.Required
			v.Example = def.Example
			v.Description = def.Description.Get(lang)
		}
		detail.Variables = append(detail.Variables, v)
	}
	return detail
}
