package catalog

import (
	"fmt"
	"sort"

	"github.com/opencode-ai/mailassist/internal/placeholder"
)

// IssueKind classifies a catalog consistency problem.
type IssueKind string

// Issue kinds reported by Check.
const (
	IssueDuplicateID          IssueKind = "duplicate_id"
	IssueUnregisteredVariable IssueKind = "unregistered_variable"
	IssueUndeclaredVariable   IssueKind = "undeclared_variable"
	IssueMissingTranslation   IssueKind = "missing_translation"
	IssueUnknownType          IssueKind = "unknown_type"
)

// Issue is a single consistency problem found in a catalog.
type Issue struct {
	TemplateID string    `json:"template_id,omitempty"`
	Variable   string    `json:"variable,omitempty"`
	Kind       IssueKind `json:"kind"`
	Detail     string    `json:"detail"`
}

// Check reports templates that reference unregistered variables, placeholders
// missing from a template's variable list, duplicate ids, missing translations
// and registry entries with an unknown type.
func Check(cat *Catalog) []Issue {
	if cat == nil {
		return nil
	}

	issues := make([]Issue, 0)
	seen := make(map[string]struct{}, len(cat.Templates))

	for _, tmpl := range cat.Templates {
		if _, dup := seen[tmpl.ID]; dup {
			issues = append(issues, Issue{
				TemplateID: tmpl.ID,
				Kind:       IssueDuplicateID,
				Detail:     "template id appears more than once",
			})
		}
		seen[tmpl.ID] = struct{}{}

		declared := make(map[string]struct{}, len(tmpl.Variables))
		for _, name := range tmpl.Variables {
			declared[name] = struct{}{}
			if _, ok := cat.Variables[name]; !ok {
				issues = append(issues, Issue{
					TemplateID: tmpl.ID,
					Variable:   name,
					Kind:       IssueUnregisteredVariable,
					Detail:     fmt.Sprintf("variable %q is not in the registry", name),
				})
			}
		}

		for _, lang := range Languages {
			for _, field := range []Field{FieldSubject, FieldBody} {
				text := tmpl.Text(field, lang)
				if text == "" {
					issues = append(issues, Issue{
						TemplateID: tmpl.ID,
						Kind:       IssueMissingTranslation,
						Detail:     fmt.Sprintf("%s has no %s text", field, lang),
					})
					continue
				}
				for _, name := range placeholder.Names(text) {
					if _, ok := declared[name]; ok {
						continue
					}
					issues = append(issues, Issue{
						TemplateID: tmpl.ID,
						Variable:   name,
						Kind:       IssueUndeclaredVariable,
						Detail:     fmt.Sprintf("%s (%s) uses %s but the template does not declare it", field, lang, placeholder.Token(name)),
					})
				}
			}
		}
	}

	names := make([]string, 0, len(cat.Variables))
	for name := range cat.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch cat.Variables[name].Type {
		case TypeEmail, TypePhone, TypeDate, TypeTime, TypeNumber, TypeText:
		default:
			issues = append(issues, Issue{
				Variable: name,
				Kind:     IssueUnknownType,
				Detail:   fmt.Sprintf("variable %q has unknown type %q", name, cat.Variables[name].Type),
			})
		}
	}

	return issues
}
