package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/export"
	"github.com/opencode-ai/mailassist/internal/i18n"
	"github.com/opencode-ai/mailassist/internal/logging"
	"github.com/opencode-ai/mailassist/internal/prefs"
	"github.com/opencode-ai/mailassist/internal/tui"
)

var (
	uiTemplateID string
	uiLang       string
)

var uiCmd = &cobra.Command{
	Use:   "ui [deep-link]",
	Short: "Open the interactive template editor",
	Long: `Open the interactive template editor.

A deep link (https://host/path?id=<template>&lang=<fr|en>) or --id/--lang
preselects a template once the catalog is loaded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := ""
		if len(args) == 1 {
			raw = args[0]
		}
		return runTUI(cmd.Context(), raw)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().StringVar(&uiTemplateID, "id", "", "template to open")
	uiCmd.Flags().StringVar(&uiLang, "lang", "", "template language (fr or en)")
}

// resolveDeepLink merges a raw deep link with the --id and --lang flags.
// Flags win over the link.
func resolveDeepLink(raw, id, lang string) (export.Link, error) {
	var link export.Link
	if strings.TrimSpace(raw) != "" {
		parsed, err := export.ParseLink(raw)
		if err != nil {
			return export.Link{}, &PreflightError{
				Message: err.Error(),
				Hint:    "Deep links look like https://host/path?id=<template>&lang=fr",
			}
		}
		link = parsed
	}
	if id = strings.TrimSpace(id); id != "" {
		link.ID = id
	}
	if strings.TrimSpace(lang) != "" {
		parsed, err := parseLang(lang, "")
		if err != nil {
			return export.Link{}, err
		}
		link.Lang = parsed
	}
	return link, nil
}

func runTUI(ctx context.Context, rawLink string) error {
	if err := requireInteractive("the editor"); err != nil {
		return err
	}

	link, err := resolveDeepLink(rawLink, uiTemplateID, uiLang)
	if err != nil {
		return err
	}

	exporter, err := newExporter()
	if err != nil {
		return err
	}
	bundle, err := i18n.Load()
	if err != nil {
		return err
	}

	cfg := GetConfig()
	store := openPrefs(ctx)
	defer store.Close()
	lang := interfaceLanguage()
	store.SetFallback(prefs.Default().WithInterfaceLanguage(lang).WithTemplateLanguage(lang))

	logger := logging.Component("tui")
	source := cfg.Catalog.Source
	dir := projectDir()
	loader := func(ctx context.Context) (*catalog.Catalog, error) {
		return catalog.LoadOrEmpty(ctx, source, dir, logging.Component("catalog"))
	}

	logger.Info().
		Str("config", cfg.Path).
		Str("link_id", link.ID).
		Msg("starting editor")

	return tui.Run(ctx, tui.Config{
		Catalog:   loader,
		Store:     store,
		Exporter:  exporter,
		Bundle:    bundle,
		BaseURL:   cfg.Link.BaseURL,
		Link:      link,
		Theme:     cfg.TUI.Theme,
		Preview:   cfg.TUI.Preview,
		CopiedFor: cfg.TUI.CopiedFor,
		Logger:    logger,
	})
}
