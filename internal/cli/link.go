package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	linkLang string
	linkCopy bool
)

var linkCmd = &cobra.Command{
	Use:   "link <id>",
	Short: "Print a shareable link to a template",
	Long: `Print a link that opens the template in the chosen language.
Variable values are never part of the link.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadFilledSession(cmd.Context(), args[0], linkLang, nil)
		if err != nil {
			return err
		}
		link, err := sess.Link(GetConfig().Link.BaseURL)
		if err != nil {
			return &PreflightError{
				Message: err.Error(),
				Hint:    "Set link.base_url to an absolute URL",
			}
		}

		copied := false
		if linkCopy {
			exporter, err := newExporter()
			if err != nil {
				return err
			}
			if err := exporter.CopyLink(cmd.Context(), link); err != nil {
				return err
			}
			copied = true
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, map[string]any{
				"id":     args[0],
				"lang":   sess.TemplateLanguage(),
				"link":   link,
				"copied": copied,
			})
		}
		fmt.Fprintln(os.Stdout, link)
		if copied {
			fmt.Fprintln(os.Stderr, colorize("Link copied", colorGreen))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.Flags().StringVar(&linkLang, "lang", "", "template language (fr or en)")
	linkCmd.Flags().BoolVar(&linkCopy, "copy", false, "also copy the link to the clipboard")
}
