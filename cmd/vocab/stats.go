package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
)

const dashboardPageSize = 5

func (a *app) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show answer statistics per entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.showStats(cmd.Context())
		},
	}
}

func (a *app) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize entries, quizzes and accuracy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.showDashboard(cmd.Context())
		},
	}
}

func (a *app) showStats(ctx context.Context) error {
	stats, err := a.deps.StatsService.MustLoad().EntryStats(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Fprintln(a.out, "no statistics yet, take a quiz first")
		return nil
	}

	summary := domain.Summarize(stats)
	fmt.Fprintf(a.out, "answers:   %d (correct %d, wrong %d)\n", summary.TotalDrawn, summary.TotalCorrect, summary.TotalWrong)
	fmt.Fprintf(a.out, "accuracy:  %d%%\n", summary.Accuracy)

	for _, section := range []struct {
		title   string
		entries []domain.EntryStats
	}{
		{"most drawn", summary.MostDrawn},
		{"most correct", summary.MostCorrect},
		{"most wrong", summary.MostWrong},
		{"best accuracy", summary.BestAccuracy},
		{"worst accuracy", summary.WorstAccuracy},
	} {
		if len(section.entries) == 0 {
			continue
		}
		fmt.Fprintf(a.out, "\n%s:\n", section.title)
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, s := range section.entries {
			fmt.Fprintf(tw, "  %s\t%s\tdrawn %d\tcorrect %d\twrong %d\t%d%%\n",
				s.Text, s.Type, s.TimesDrawn, s.TimesCorrect, s.TimesWrong, s.Accuracy())
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) showDashboard(ctx context.Context) error {
	var (
		user    *domain.User
		entries domain.Page[domain.Entry]
		quizzes domain.Page[domain.Quiz]
		stats   []domain.EntryStats
	)

	page, size := 0, dashboardPageSize
	wg, gctx := errgroup.WithContext(ctx)
	wg.Go(func() (err error) {
		user, err = a.deps.UserService.MustLoad().GetCurrentUser(gctx)
		return err
	})
	wg.Go(func() (err error) {
		entries, err = a.deps.EntryService.MustLoad().List(gctx, domain.EntryFilter{Page: &page, Size: &size})
		return err
	})
	wg.Go(func() (err error) {
		quizzes, err = a.deps.QuizService.MustLoad().List(gctx, &page, &size)
		return err
	})
	wg.Go(func() (err error) {
		stats, err = a.deps.StatsService.MustLoad().EntryStats(gctx)
		return err
	})
	if err := wg.Wait(); err != nil {
		return err
	}

	summary := domain.Summarize(stats)
	fmt.Fprintf(a.out, "welcome, %s!\n\n", user.Name)
	fmt.Fprintf(a.out, "entries:   %d (%d enabled on this page)\n", entries.TotalElements, len(domain.EnabledEntries(entries.Content)))
	fmt.Fprintf(a.out, "quizzes:   %d\n", quizzes.TotalElements)
	fmt.Fprintf(a.out, "accuracy:  %d%%\n", summary.Accuracy)

	if len(quizzes.Content) == 0 {
		fmt.Fprintln(a.out, "\nno quizzes yet, run `vocab quiz`")
		return nil
	}
	fmt.Fprintln(a.out, "\nrecent quizzes:")
	return printQuizzes(a.out, quizzes.Content)
}
