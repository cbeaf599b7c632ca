package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
)

func (a *app) entriesCommand() *cobra.Command {
	list := a.entriesListCommand("list")
	cmd := a.entriesListCommand("entries")
	cmd.Short = "Manage words and phrases, lists them without a subcommand"
	cmd.Args = noUnknownSubcommand
	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "show ID",
			Short: "Show one entry",
			Args:  requireID("entry id"),
			RunE: func(cmd *cobra.Command, args []string) error {
				entry, err := a.deps.EntryService.MustLoad().Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printEntry(a, *entry)
				return nil
			},
		},
		a.entriesAddCommand(),
		a.entriesEditCommand(),
		&cobra.Command{
			Use:   "toggle ID",
			Short: "Enable or disable an entry for quizzes",
			Args:  requireID("entry id"),
			RunE: func(cmd *cobra.Command, args []string) error {
				entry, err := a.deps.EntryService.MustLoad().Toggle(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				state := "disabled"
				if entry.Enabled {
					state = "enabled"
				}
				fmt.Fprintf(a.out, "entry %s %s\n", entry.ID, state)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm ID",
			Short: "Delete an entry",
			Args:  requireID("entry id"),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.deps.EntryService.MustLoad().Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "deleted entry %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func (a *app) entriesListCommand(use string) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   use,
		Short: "List entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := domain.EntryFilter{}
			var err error
			if filter.Enabled, err = boolFlag(cmd, "enabled"); err != nil {
				return err
			}
			if filter.Page, err = intFlag(cmd, "page"); err != nil {
				return err
			}
			if filter.Size, err = intFlag(cmd, "size"); err != nil {
				return err
			}
			if query != "" {
				filter.Query = &query
			}
			return a.listEntries(cmd.Context(), filter)
		},
	}
	cmd.Flags().Bool("enabled", false, "filter by enabled state, use --enabled=false for disabled entries")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search text or translations")
	cmd.Flags().Int("page", 0, "zero-based page number")
	cmd.Flags().Int("size", 0, "page size")
	return cmd
}

func (a *app) listEntries(ctx context.Context, filter domain.EntryFilter) error {
	result, err := a.deps.EntryService.MustLoad().List(ctx, filter)
	if err != nil {
		return err
	}
	if result.Empty || len(result.Content) == 0 {
		fmt.Fprintln(a.out, "no entries")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tTEXT\tTRANSLATIONS\tENABLED\tACCURACY")
	for _, e := range result.Content {
		stats := domain.EntryStats{TimesDrawn: e.TimesDrawn, TimesCorrect: e.TimesCorrect}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%d%%\n",
			e.ID, e.Type, e.Text, joinTranslations(e.Translations), e.Enabled, stats.Accuracy())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "page %d of %d, %d entries total\n", result.Number+1, max(result.TotalPages, 1), result.TotalElements)
	return nil
}

func (a *app) entriesAddCommand() *cobra.Command {
	var (
		entryType, text string
		translations    []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a word or phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entry, err := a.deps.EntryService.MustLoad().Create(cmd.Context(), domain.EntryCreate{
				Type:         domain.EntryType(strings.ToUpper(entryType)),
				Text:         text,
				Translations: toTranslations(translations),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "created entry %s\n", entry.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&entryType, "type", string(domain.EntryTypeWord), "WORD or PHRASE")
	cmd.Flags().StringVar(&text, "text", "", "word or phrase")
	cmd.Flags().StringArrayVarP(&translations, "translation", "t", nil, "translation, may be repeated")
	return cmd
}

func (a *app) entriesEditCommand() *cobra.Command {
	var (
		entryType, text string
		translations    []string
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change an entry, translations are kept unless new ones are given",
		Args:  requireID("entry id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			enabled, err := boolFlag(cmd, "enabled")
			if err != nil {
				return err
			}

			service := a.deps.EntryService.MustLoad()
			update := domain.EntryUpdate{
				Enabled:      enabled,
				Translations: toTranslations(translations),
			}
			if text != "" {
				update.Text = &text
			}
			if entryType != "" {
				t := domain.EntryType(strings.ToUpper(entryType))
				update.Type = &t
			}
			if len(update.Translations) == 0 {
				current, err := service.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				update.Translations = current.Translations
			}

			entry, err := service.Update(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			printEntry(a, *entry)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "new word or phrase")
	cmd.Flags().StringVar(&entryType, "type", "", "WORD or PHRASE")
	cmd.Flags().Bool("enabled", false, "enable or disable the entry")
	cmd.Flags().StringArrayVarP(&translations, "translation", "t", nil, "translation replacing the current ones, may be repeated")
	return cmd
}

func printEntry(a *app, e domain.Entry) {
	stats := domain.EntryStats{TimesDrawn: e.TimesDrawn, TimesCorrect: e.TimesCorrect}
	fmt.Fprintf(a.out, "%s (%s)\n", e.Text, e.Type)
	fmt.Fprintf(a.out, "id:            %s\n", e.ID)
	fmt.Fprintf(a.out, "translations:  %s\n", joinTranslations(e.Translations))
	fmt.Fprintf(a.out, "enabled:       %t\n", e.Enabled)
	fmt.Fprintf(a.out, "drawn:         %d (correct %d, wrong %d, accuracy %d%%)\n",
		e.TimesDrawn, e.TimesCorrect, e.TimesWrong, stats.Accuracy())
	fmt.Fprintf(a.out, "created:       %s\n", formatDate(e.CreatedAt))
}

func toTranslations(texts []string) []domain.Translation {
	result := make([]domain.Translation, 0, len(texts))
	for _, text := range texts {
		result = append(result, domain.Translation{Text: strings.TrimSpace(text)})
	}
	return result
}

func joinTranslations(translations []domain.Translation) string {
	texts := make([]string, 0, len(translations))
	for _, t := range translations {
		texts = append(texts, t.Text)
	}
	return strings.Join(texts, ", ")
}

func formatDate(t domain.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
