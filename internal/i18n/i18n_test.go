package i18n

import (
	"testing"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/validate"
)

func TestLocalesShareKeys(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	fr := b.Keys(catalog.LangFR)
	en := b.Keys(catalog.LangEN)
	if len(fr) == 0 {
		t.Fatalf("expected french keys")
	}
	if len(fr) != len(en) {
		t.Fatalf("key count differs: fr=%d en=%d", len(fr), len(en))
	}
	for i := range fr {
		if fr[i] != en[i] {
			t.Fatalf("key mismatch at %d: fr=%q en=%q", i, fr[i], en[i])
		}
	}
}

func TestTFallsBack(t *testing.T) {
	b := MustLoad()
	if got := b.T(catalog.LangEN, "editor.subject"); got != "Subject" {
		t.Fatalf("expected english subject label, got %q", got)
	}
	if got := b.T(catalog.Lang("de"), "editor.subject"); got != "Objet" {
		t.Fatalf("expected french fallback, got %q", got)
	}
	if got := b.T(catalog.LangEN, "missing.key"); got != "missing.key" {
		t.Fatalf("expected key echo, got %q", got)
	}
	if got := b.Tf(catalog.LangEN, "vars.chars", 12); got != "12 characters" {
		t.Fatalf("unexpected formatted message %q", got)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want catalog.Lang
	}{
		{"empty", map[string]string{}, catalog.LangFR},
		{"english lang", map[string]string{"LANG": "en_CA.UTF-8"}, catalog.LangEN},
		{"french lang", map[string]string{"LANG": "fr_CA.UTF-8"}, catalog.LangFR},
		{"lc_all wins", map[string]string{"LC_ALL": "en_US.UTF-8", "LANG": "fr_FR.UTF-8"}, catalog.LangEN},
		{"posix skipped", map[string]string{"LC_ALL": "C", "LANG": "en_GB"}, catalog.LangEN},
		{"unsupported", map[string]string{"LANG": "ja_JP.UTF-8"}, catalog.LangFR},
		{"language list", map[string]string{"LANGUAGE": "ja:en"}, catalog.LangEN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(func(key string) string { return tt.env[key] })
			if got != tt.want {
				t.Fatalf("Detect = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategoryAndValidation(t *testing.T) {
	b := MustLoad()
	if got := b.Category(catalog.LangEN, "Gestion de projets"); got != "Project management" {
		t.Fatalf("unexpected category label %q", got)
	}
	if got := b.Category(catalog.LangEN, "Custom"); got != "Custom" {
		t.Fatalf("expected untranslated category to pass through, got %q", got)
	}
	if got := b.Validation(catalog.LangEN, validate.Result{Reason: validate.ReasonInvalidEmail}); got != "Invalid email address" {
		t.Fatalf("unexpected validation message %q", got)
	}
	if got := b.Validation(catalog.LangFR, validate.Result{Valid: true}); got != "valide" {
		t.Fatalf("unexpected valid message %q", got)
	}
}
