package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
	"github.com/klwxsrx/vocab-client/internal/vocab/quiz"
)

const (
	quizEntriesPageSize = 1000
	quitAnswer          = "/quit"
)

func (a *app) quizCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take an interactive quiz over enabled entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("%w: limit must not be negative", errUsage)
			}
			return a.takeQuiz(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of questions, 0 uses every enabled entry")
	return cmd
}

func (a *app) takeQuiz(ctx context.Context, limit int) error {
	enabled, size := true, quizEntriesPageSize
	entries, err := a.deps.EntryService.MustLoad().List(ctx, domain.EntryFilter{Enabled: &enabled, Size: &size})
	if err != nil {
		return err
	}
	if len(domain.EnabledEntries(entries.Content)) == 0 {
		return quiz.ErrNoEntries
	}

	quizzes := a.deps.QuizService.MustLoad()
	created, err := quizzes.Create(ctx, limit)
	if err != nil {
		return err
	}

	session, err := quiz.NewSession(quizzes, *created, entries.Content, limit, a.rand)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "quiz started with %d questions, answer %s to stop early\n", session.Len(), quitAnswer)
	if err := a.playQuiz(ctx, session); err != nil {
		return err
	}

	finished, err := session.Finish(ctx)
	if err != nil {
		return err
	}

	correct, answered := session.Score()
	fmt.Fprintf(a.out, "quiz finished: %d of %d correct (%d%%)\n", correct, answered, finished.Accuracy())
	return nil
}

func (a *app) playQuiz(ctx context.Context, session *quiz.Session) error {
	for {
		entry, ok := session.Current()
		if !ok {
			return nil
		}

		fmt.Fprintf(a.out, "[%d/%d] %s (%s)\n", session.Position()+1, session.Len(), entry.Text, entry.Type)
		line, err := a.prompt("> ")
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			return err
		}

		answer := strings.TrimSpace(line)
		if answer == quitAnswer {
			return nil
		}
		if answer == "" {
			fmt.Fprintln(a.out, "answer must not be empty")
			continue
		}

		resp, err := session.Answer(ctx, answer)
		if err != nil {
			return err
		}
		if resp.IsCorrect {
			fmt.Fprintln(a.out, "correct!")
		} else {
			fmt.Fprintf(a.out, "wrong, expected: %s\n", strings.Join(resp.CorrectTranslations, ", "))
		}

		more, err := session.Next()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func (a *app) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List taken quizzes",
		Args:  noUnknownSubcommand,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := intFlag(cmd, "page")
			if err != nil {
				return err
			}
			size, err := intFlag(cmd, "size")
			if err != nil {
				return err
			}
			return a.listQuizzes(cmd.Context(), page, size)
		},
	}
	cmd.Flags().Int("page", 0, "zero-based page number")
	cmd.Flags().Int("size", 0, "page size")

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Show one quiz with its answers",
		Args:  requireID("quiz id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showQuiz(cmd.Context(), args[0])
		},
	})
	return cmd
}

func (a *app) listQuizzes(ctx context.Context, page, size *int) error {
	result, err := a.deps.QuizService.MustLoad().List(ctx, page, size)
	if err != nil {
		return err
	}
	if len(result.Content) == 0 {
		fmt.Fprintln(a.out, "no quizzes yet")
		return nil
	}

	if err := printQuizzes(a.out, result.Content); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "page %d of %d, %d quizzes total\n", result.Number+1, max(result.TotalPages, 1), result.TotalElements)
	return nil
}

func (a *app) showQuiz(ctx context.Context, id string) error {
	q, err := a.deps.QuizService.MustLoad().Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "quiz %s\n", q.ID)
	fmt.Fprintf(a.out, "started:   %s\n", formatDate(q.StartedAt))
	if q.Finished() {
		fmt.Fprintf(a.out, "finished:  %s\n", formatDate(*q.FinishedAt))
	} else {
		fmt.Fprintln(a.out, "finished:  in progress")
	}
	fmt.Fprintf(a.out, "score:     %s (%d%%)\n", quizScore(*q), q.Accuracy())

	if len(q.QuizItems) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTRY\tANSWER\tRESULT\tEXPECTED")
	for _, item := range q.QuizItems {
		result := "wrong"
		if item.IsCorrect {
			result = "correct"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			item.EntryText, item.UserAnswer, result, strings.Join(item.CorrectTranslations, ", "))
	}
	return tw.Flush()
}

func printQuizzes(w io.Writer, quizzes []domain.Quiz) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tSCORE\tACCURACY")
	for _, q := range quizzes {
		status := "in progress"
		if q.Finished() {
			status = "finished"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%%\n", q.ID, formatDate(q.StartedAt), status, quizScore(q), q.Accuracy())
	}
	return tw.Flush()
}

func quizScore(q domain.Quiz) string {
	if q.Score != "" {
		return q.Score
	}
	return fmt.Sprintf("%d/%d", q.CorrectAnswers, q.TotalQuestions)
}
