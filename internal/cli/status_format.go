// Package cli provides status formatting helpers.
package cli

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/validate"
)

func formatValidation(result validate.Result) string {
	label, color := statusLabelForValidation(result)
	return colorize(formatStatusLabel(label, string(result.Reason)), color)
}

func formatIssueKind(kind catalog.IssueKind) string {
	label, color := statusLabelForIssue(kind)
	return colorize(formatStatusLabel(label, string(kind)), color)
}

func statusLabelForValidation(result validate.Result) (string, string) {
	switch {
	case result.Valid:
		return "OK", colorGreen
	case result.Reason == validate.ReasonRequired:
		return "WAIT", colorYellow
	default:
		return "ERR", colorRed
	}
}

func statusLabelForIssue(kind catalog.IssueKind) (string, string) {
	switch kind {
	case catalog.IssueDuplicateID, catalog.IssueUnknownType:
		return "ERR", colorRed
	case catalog.IssueUnregisteredVariable:
		return "WARN", colorMagenta
	case catalog.IssueMissingTranslation:
		return "WARN", colorCyan
	default:
		return "WARN", colorYellow
	}
}

func formatStatusLabel(label, status string) string {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized != "" {
		normalized = strings.ReplaceAll(normalized, "_", " ")
	}
	if normalized == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, normalized)
}
