package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/valyala/fasttemplate"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/export"
	"github.com/opencode-ai/mailassist/internal/highlight"
	"github.com/opencode-ai/mailassist/internal/i18n"
	"github.com/opencode-ai/mailassist/internal/session"
	"github.com/opencode-ai/mailassist/internal/validate"
)

// exitInvalidFields is returned by render --strict when a field fails validation.
const exitInvalidFields = 2

var (
	renderLang   string
	renderVars   []string
	renderPart   string
	renderHTML   bool
	renderFormat string
	renderStrict bool

	copyLang string
	copyVars []string
	copyPart string
)

var renderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Fill a template and print the result",
	Long: `Fill a template with example values and --var overrides, then print the
subject and body. Invalid fields are reported on stderr.

--format expands {subject}, {body}, {id}, {title}, {lang} and {link}:

  mailassist render quote --var quoteNumber=42 --format '{subject}|{link}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		part, err := export.ParsePart(renderPart)
		if err != nil {
			return &PreflightError{Message: err.Error(), Hint: "Use --part subject, body or all"}
		}
		sess, err := loadFilledSession(cmd.Context(), args[0], renderLang, renderVars)
		if err != nil {
			return err
		}
		bundle, err := i18n.Load()
		if err != nil {
			return err
		}

		result := buildRenderResult(sess, bundle, interfaceLanguage(), GetConfig().Link.BaseURL)
		switch {
		case IsJSONOutput() || IsJSONLOutput():
			if err := WriteOutput(os.Stdout, result); err != nil {
				return err
			}
		case renderFormat != "":
			fmt.Fprintln(os.Stdout, expandFormat(renderFormat, result))
		case renderHTML:
			fmt.Fprintln(os.Stdout, renderHTMLParts(sess, part))
		default:
			text, err := export.Assemble(part, result.Subject, result.Body)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, text)
		}

		if !IsJSONOutput() && !IsJSONLOutput() {
			writeFieldReport(os.Stderr, result.Fields)
		}
		if renderStrict && result.Invalid > 0 {
			return &ExitError{
				Code: exitInvalidFields,
				Err:  fmt.Errorf("%d field(s) failed validation", result.Invalid),
			}
		}
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy <id>",
	Short: "Fill a template and copy it to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		part, err := export.ParsePart(copyPart)
		if err != nil {
			return &PreflightError{Message: err.Error(), Hint: "Use --part subject, body or all"}
		}
		sess, err := loadFilledSession(cmd.Context(), args[0], copyLang, copyVars)
		if err != nil {
			return err
		}
		exporter, err := newExporter()
		if err != nil {
			return err
		}

		text, err := exporter.Copy(cmd.Context(), part, sess.Subject().Text, sess.Body().Text)
		if err != nil {
			var clipErr *export.ClipboardError
			if errors.As(err, &clipErr) {
				return &PreflightError{
					Message:  err.Error(),
					Hint:     "Set clipboard.mode: osc52 when no system clipboard is available",
					NextStep: "mailassist render " + args[0],
				}
			}
			return err
		}

		out := copyResult{ID: args[0], Part: part, Chars: utf8.RuneCountInString(text), Invalid: len(sess.Invalid())}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, out)
		}
		fmt.Fprintf(os.Stdout, "Copied %s of %s (%d chars)\n", out.Part, out.ID, out.Chars)
		if out.Invalid > 0 {
			fmt.Fprintln(os.Stderr, colorize(fmt.Sprintf("%d field(s) failed validation", out.Invalid), colorYellow))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(copyCmd)

	renderCmd.Flags().StringVar(&renderLang, "lang", "", "template language (fr or en)")
	renderCmd.Flags().StringArrayVar(&renderVars, "var", nil, "variable binding name=value (repeatable)")
	renderCmd.Flags().StringVar(&renderPart, "part", string(export.PartAll), "part to print (subject, body, all)")
	renderCmd.Flags().BoolVar(&renderHTML, "html", false, "print the highlighted preview as HTML")
	renderCmd.Flags().StringVar(&renderFormat, "format", "", "output template using {subject} {body} {id} {title} {lang} {link}")
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "exit with status 2 when a field fails validation")

	copyCmd.Flags().StringVar(&copyLang, "lang", "", "template language (fr or en)")
	copyCmd.Flags().StringArrayVar(&copyVars, "var", nil, "variable binding name=value (repeatable)")
	copyCmd.Flags().StringVar(&copyPart, "part", string(export.PartAll), "part to copy (subject, body, all)")
}

type fieldReport struct {
	Name       string          `json:"name"`
	Type       string          `json:"type,omitempty"`
	Required   bool            `json:"required"`
	Registered bool            `json:"registered"`
	Value      string          `json:"value"`
	Valid      bool            `json:"valid"`
	Reason     validate.Reason `json:"reason,omitempty"`
	Message    string          `json:"message"`
}

type renderResult struct {
	ID      string        `json:"id"`
	Lang    catalog.Lang  `json:"lang"`
	Title   string        `json:"title"`
	Subject string        `json:"subject"`
	Body    string        `json:"body"`
	Link    string        `json:"link,omitempty"`
	Fields  []fieldReport `json:"fields"`
	Invalid int           `json:"invalid"`
}

type copyResult struct {
	ID      string      `json:"id"`
	Part    export.Part `json:"part"`
	Chars   int         `json:"chars"`
	Invalid int         `json:"invalid"`
}

func loadFilledSession(ctx context.Context, id, langFlag string, varFlags []string) (*session.Session, error) {
	lang, err := parseLang(langFlag, catalog.LangFR)
	if err != nil {
		return nil, err
	}
	vars, err := parseVars(varFlags)
	if err != nil {
		return nil, err
	}
	cat, err := openCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return fillSession(cat, id, lang, vars)
}

func buildRenderResult(sess *session.Session, bundle *i18n.Bundle, ui catalog.Lang, baseURL string) renderResult {
	tmpl, _ := sess.Selected()
	lang := sess.TemplateLanguage()
	result := renderResult{
		ID:      tmpl.ID,
		Lang:    lang,
		Title:   tmpl.Title.Get(lang),
		Subject: sess.Subject().Text,
		Body:    sess.Body().Text,
		Fields:  []fieldReport{},
	}
	if link, err := sess.Link(baseURL); err == nil {
		result.Link = link
	}
	for _, field := range sess.Fields() {
		report := fieldReport{
			Name:       field.Name,
			Type:       string(field.Def.Type),
			Required:   field.Def.Required,
			Registered: field.Registered,
			Value:      field.Value,
			Valid:      field.Result.Valid,
			Reason:     field.Result.Reason,
			Message:    bundle.Validation(ui, field.Result),
		}
		if !report.Valid {
			result.Invalid++
		}
		result.Fields = append(result.Fields, report)
	}
	return result
}

// expandFormat substitutes {tag} placeholders; unknown tags are kept verbatim.
func expandFormat(format string, result renderResult) string {
	return fasttemplate.ExecuteStringStd(format, "{", "}", map[string]any{
		"subject": result.Subject,
		"body":    result.Body,
		"id":      result.ID,
		"title":   result.Title,
		"lang":    string(result.Lang),
		"link":    result.Link,
	})
}

func renderHTMLParts(sess *session.Session, part export.Part) string {
	subject := `<div class="subject">` + highlight.HTML(sess.PreviewSegments(catalog.FieldSubject), false) + `</div>`
	body := `<div class="body">` + highlight.HTML(sess.PreviewSegments(catalog.FieldBody), false) + `</div>`
	switch part {
	case export.PartSubject:
		return subject
	case export.PartBody:
		return body
	default:
		return subject + "\n" + body
	}
}

func writeFieldReport(w io.Writer, fields []fieldReport) {
	for _, field := range fields {
		if field.Valid {
			continue
		}
		result := validate.Result{Valid: field.Valid, Reason: field.Reason}
		fmt.Fprintf(w, "%s  %s: %s\n", formatValidation(result), field.Name, field.Message)
	}
}
