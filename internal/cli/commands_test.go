package cli

import (
	"errors"
	"os"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/logging"
	"github.com/opencode-ai/mailassist/internal/validate"
)

func TestRenderCommandJSON(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "render", "quote", "--catalog", path, "--var", "quoteNumber=42", "--json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var result renderResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if result.Subject != "Devis #42" {
		t.Errorf("subject = %q", result.Subject)
	}
	if result.Body != "Bonjour Marie" {
		t.Errorf("body = %q", result.Body)
	}
	if result.Link != "https://mailassist.app/?id=quote&lang=fr" {
		t.Errorf("link = %q", result.Link)
	}
	if result.Invalid != 0 || len(result.Fields) != 2 {
		t.Errorf("fields = %+v", result.Fields)
	}
}

func TestRenderCommandText(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "render", "quote", "--catalog", path, "--lang", "en", "--var", "clientName=Ada")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Quote #1234\n\nHello Ada\n" {
		t.Errorf("unexpected output %q", out)
	}

	out, err = runCLI(t, "render", "quote", "--catalog", path, "--part", "subject")
	if err != nil {
		t.Fatalf("render subject: %v", err)
	}
	if out != "Devis #1234\n" {
		t.Errorf("unexpected subject output %q", out)
	}
}

func TestRenderFormatKeepsUnknownTags(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "render", "quote", "--catalog", path, "--var", "quoteNumber=7", "--format", "{subject}|{id}|{lang}|{other}")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Devis #7|quote|fr|{other}\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRenderHTMLEscapes(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "render", "quote", "--catalog", path, "--var", "clientName=<b>Ada</b>", "--html", "--part", "body")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	mustContain(t, out, `<div class="body">Bonjour <span class="variable variable-text"`)
	mustContain(t, out, "&lt;b&gt;Ada&lt;/b&gt;")
	if strings.Contains(out, "<b>") {
		t.Errorf("markup was not escaped: %s", out)
	}
}

func TestRenderStrictFailsOnInvalidField(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	_, err := runCLI(t, "render", "quote", "--catalog", path, "--var", "quoteNumber=", "--strict")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitInvalidFields {
		t.Fatalf("expected exit code %d, got %v", exitInvalidFields, err)
	}

	if _, err := runCLI(t, "render", "quote", "--catalog", path, "--var", "quoteNumber="); err != nil {
		t.Fatalf("without --strict invalid fields only warn: %v", err)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown template", []string{"render", "missing"}},
		{"unknown variable", []string{"render", "quote", "--var", "ghost=1"}},
		{"malformed var", []string{"render", "quote", "--var", "noequals"}},
		{"bad lang", []string{"render", "quote", "--lang", "de"}},
		{"bad part", []string{"render", "quote", "--part", "footer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append(tt.args, "--catalog", path)...)
			var preflight *PreflightError
			if !errors.As(err, &preflight) {
				t.Fatalf("expected PreflightError, got %v", err)
			}
		})
	}
}

func TestListCommand(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "list", "--catalog", path, "--search", "devis", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var summaries []templateSummary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "quote" {
		t.Fatalf("unexpected templates: %+v", summaries)
	}

	out, err = runCLI(t, "list", "--catalog", path)
	if err != nil {
		t.Fatalf("list table: %v", err)
	}
	mustContain(t, out, "ID")
	mustContain(t, out, "thanks")
	mustContain(t, out, "Quotes and estimates")
}

func TestListJSONLines(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "list", "--catalog", path, "--jsonl")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one line per template, got %d:\n%s", len(lines), out)
	}
}

func TestCategoriesCommand(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "categories", "--catalog", path, "--json")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	var categories []categorySummary
	if err := json.Unmarshal([]byte(out), &categories); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Devis et estimations" || categories[0].Templates != 1 {
		t.Fatalf("unexpected categories: %+v", categories)
	}
	if categories[1].Label != "General communications" {
		t.Errorf("label not translated: %+v", categories[1])
	}
}

func TestShowCommand(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "show", "quote", "--catalog", path, "--json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var detail templateDetail
	if err := json.Unmarshal([]byte(out), &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Subject != "Devis #<<quoteNumber>>" || len(detail.Variables) != 2 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if v := detail.Variables[0]; v.Type != "number" || !v.Required || v.Example != "1234" {
		t.Errorf("unexpected variable: %+v", v)
	}
}

func TestLinkCommand(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "link", "quote", "--catalog", path, "--lang", "en")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if out != "https://mailassist.app/?id=quote&lang=en\n" {
		t.Errorf("unexpected link %q", out)
	}
}

func TestCopyCommand(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "copy", "quote", "--catalog", path, "--part", "subject", "--json")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	var result copyResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Chars != len("Devis #1234") || result.Invalid != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestValidateCommand(t *testing.T) {
	setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "validate", "email", "a@b.co", "--json")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	mustContain(t, out, `"valid": true`)

	_, err = runCLI(t, "validate", "phone", "12-34")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitInvalidFields {
		t.Fatalf("expected exit error, got %v", err)
	}

	_, err = runCLI(t, "validate", "number", "", "--required")
	if !errors.As(err, &exitErr) {
		t.Fatalf("required empty value should fail, got %v", err)
	}

	_, err = runCLI(t, "validate", "colour", "red")
	var preflight *PreflightError
	if !errors.As(err, &preflight) {
		t.Fatalf("expected PreflightError for unknown type, got %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	path := setupCLI(t, testCatalogJSON)
	if out, err := runCLI(t, "check", "--catalog", path); err != nil {
		t.Fatalf("clean catalog: %v\n%s", err, out)
	}

	broken := strings.Replace(testCatalogJSON, `"body": {"fr": "Merci beaucoup"`, `"body": {"fr": "Merci <<ghost>>"`, 1)
	path = setupCLI(t, broken)
	out, err := runCLI(t, "check", "--catalog", path, "--json")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exit error, got %v", err)
	}
	var report checkReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(report.Issues) == 0 {
		t.Fatal("expected issues")
	}
	found := false
	for _, issue := range report.Issues {
		if issue.TemplateID == "thanks" && issue.Variable == "ghost" {
			found = true
		}
	}
	if !found {
		t.Errorf("ghost placeholder not reported: %+v", report.Issues)
	}
}

func TestPrefsCommands(t *testing.T) {
	setupCLI(t, testCatalogJSON)

	out, err := runCLI(t, "prefs", "show", "--json")
	if err != nil {
		t.Fatalf("prefs show: %v", err)
	}
	mustContain(t, out, `"interfaceLanguage": "fr"`)
	mustContain(t, out, `"selectedCategory": "all"`)

	out, err = runCLI(t, "prefs", "reset")
	if err != nil {
		t.Fatalf("prefs reset: %v", err)
	}
	mustContain(t, out, "Preferences cleared")
}

func TestUIRefusesNonInteractive(t *testing.T) {
	setupCLI(t, testCatalogJSON)

	_, err := runCLI(t, "ui", "--non-interactive")
	var preflight *PreflightError
	if !errors.As(err, &preflight) {
		t.Fatalf("expected PreflightError, got %v", err)
	}
}

func TestMainExitCodes(t *testing.T) {
	setupCLI(t, testCatalogJSON)

	resetCommandFlags(rootCmd)
	var stderr strings.Builder
	if code := Main(t.Context(), []string{"validate", "time", "25:00"}, &stderr); code != exitInvalidFields {
		t.Fatalf("expected exit code %d, got %d", exitInvalidFields, code)
	}
	mustContain(t, stderr.String(), "Error:")

	resetCommandFlags(rootCmd)
	stderr.Reset()
	if code := Main(t.Context(), []string{"render", "nope", "--catalog", "builtin"}, &stderr); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	mustContain(t, stderr.String(), "Next: mailassist list")
}

func TestFormatStatusLabel(t *testing.T) {
	tests := []struct {
		label  string
		status string
		want   string
	}{
		{"OK", "", "OK"},
		{"ERR", "INVALID_EMAIL", "ERR invalid email"},
		{"WARN", "unregistered_variable", "WARN unregistered variable"},
	}
	for _, tt := range tests {
		if got := formatStatusLabel(tt.label, tt.status); got != tt.want {
			t.Errorf("formatStatusLabel(%q, %q) = %q, want %q", tt.label, tt.status, got, tt.want)
		}
	}

	if label, _ := statusLabelForValidation(validate.Result{Reason: validate.ReasonRequired}); label != "WAIT" {
		t.Errorf("required label = %q", label)
	}
	if label, _ := statusLabelForIssue(catalog.IssueDuplicateID); label != "ERR" {
		t.Errorf("duplicate id label = %q", label)
	}
}

func TestResolveDeepLink(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		id      string
		lang    string
		wantID  string
		wantLng catalog.Lang
		wantErr bool
	}{
		{name: "empty"},
		{name: "link", raw: "https://mailassist.app/?id=quote&lang=en", wantID: "quote", wantLng: catalog.LangEN},
		{name: "query only", raw: "?id=thanks", wantID: "thanks"},
		{name: "flags win", raw: "https://x.test/?id=quote&lang=en", id: "thanks", lang: "fr", wantID: "thanks", wantLng: catalog.LangFR},
		{name: "bad lang flag", lang: "de", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := resolveDeepLink(tt.raw, tt.id, tt.lang)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if link.ID != tt.wantID || link.Lang != tt.wantLng {
				t.Errorf("got %+v", link)
			}
		})
	}
}

func TestParseVars(t *testing.T) {
	vars, err := parseVars([]string{"a=1", "b=x=y", " c =", "d= spaced "})
	if err != nil {
		t.Fatalf("parseVars: %v", err)
	}
	want := map[string]string{"a": "1", "b": "x=y", "c": "", "d": " spaced "}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("%s = %q, want %q", k, vars[k], v)
		}
	}
	if _, err := parseVars([]string{"=1"}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestInitConfigRoutesLogs(t *testing.T) {
	setupCLI(t, testCatalogJSON)
	t.Setenv("MAILASSIST_LOGGING_LEVEL", "info")
	resetCommandFlags(rootCmd)

	if err := initConfig(rootCmd); err != nil {
		t.Fatalf("initConfig(root): %v", err)
	}
	path := GetConfig().Logging.File
	_ = logging.Close()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected the editor to log to %s: %v", path, err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove log: %v", err)
	}

	if err := initConfig(listCmd); err != nil {
		t.Fatalf("initConfig(list): %v", err)
	}
	_ = logging.Close()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected one-shot commands to log to stderr, found %s", path)
	}
}
