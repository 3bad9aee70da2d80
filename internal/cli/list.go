package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/i18n"
)

var (
	listSearch   string
	listCategory string
	listLang     string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	Long:    "List catalog templates, optionally filtered by search text and category.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := parseLang(listLang, catalog.LangFR)
		if err != nil {
			return err
		}
		cat, err := openCatalog(cmd.Context())
		if err != nil {
			return err
		}

		templates := catalog.Filter(cat.Templates, catalog.Query{
			Search:   listSearch,
			Category: listCategory,
			Lang:     lang,
		})

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, summarizeTemplates(templates, lang))
		}

		if len(templates) == 0 {
			fmt.Fprintln(os.Stdout, "No templates match.")
			return nil
		}
		bundle, err := i18n.Load()
		if err != nil {
			return err
		}
		ui := interfaceLanguage()
		rows := make([][]string, 0, len(templates))
		for _, tmpl := range templates {
			rows = append(rows, []string{
				tmpl.ID,
				bundle.Category(ui, tmpl.Category),
				tmpl.Title.Get(lang),
				fmt.Sprintf("%d", len(tmpl.Variables)),
			})
		}
		return writeTable(os.Stdout, []string{"ID", "CATEGORY", "TITLE", "VARS"}, rows)
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List template categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog(cmd.Context())
		if err != nil {
			return err
		}
		bundle, err := i18n.Load()
		if err != nil {
			return err
		}

		ui := interfaceLanguage()
		categories := cat.Categories()
		counts := make(map[string]int, len(categories))
		for _, tmpl := range cat.Templates {
			counts[tmpl.Category]++
		}

		out := make([]categorySummary, 0, len(categories))
		for _, name := range categories {
			out = append(out, categorySummary{
				Name:      name,
				Label:     bundle.Category(ui, name),
				Templates: counts[name],
			})
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, out)
		}
		rows := make([][]string, 0, len(out))
		for _, c := range out {
			rows = append(rows, []string{c.Name, c.Label, fmt.Sprintf("%d", c.Templates)})
		}
		return writeTable(os.Stdout, []string{"CATEGORY", "LABEL", "TEMPLATES"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(categoriesCmd)

	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "match title, description or category")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only templates in this category")
	listCmd.Flags().StringVar(&listLang, "lang", "", "language for titles and search (fr or en)")
}

type templateSummary struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Variables   []string `json:"variables"`
}

type categorySummary struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Templates int    `json:"templates"`
}

func summarizeTemplates(templates []*catalog.Template, lang catalog.Lang) []templateSummary {
	out := make([]templateSummary, 0, len(templates))
	for _, tmpl := range templates {
		vars := tmpl.Variables
		if vars == nil {
			vars = []string{}
		}
		out = append(out, templateSummary{
			ID:          tmpl.ID,
			Category:    tmpl.Category,
			Title:       tmpl.Title.Get(lang),
			Description: strings.TrimSpace(tmpl.Description.Get(lang)),
			Variables:   vars,
		})
	}
	return out
}
