package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/klwxsrx/vocab-client/internal/vocab"
	"github.com/klwxsrx/vocab-client/internal/vocab/api"
	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
	pkghttp "github.com/klwxsrx/vocab-client/pkg/http"
	pkgsession "github.com/klwxsrx/vocab-client/pkg/session"
)

var errUsage = errors.New("invalid usage")

type app struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	deps   *vocab.DependencyContainer
	rand   *rand.Rand

	expiredOnce sync.Once
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}
}

// RedirectToLogin is the CLI navigator, the notice is printed once per process.
func (a *app) RedirectToLogin(context.Context) {
	a.expiredOnce.Do(func() {
		fmt.Fprintln(a.errOut, "session expired, run `vocab login`")
	})
}

var _ pkgsession.Navigator = (*app)(nil)

func (a *app) run(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vocab",
		Short:         "Study words and phrases against the vocab backend",
		Args:          noUnknownSubcommand,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Usage()
			return fmt.Errorf("%w: command is required", errUsage)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	root.AddCommand(a.authCommands()...)
	root.AddCommand(
		a.entriesCommand(),
		a.quizCommand(),
		a.historyCommand(),
		a.statsCommand(),
		a.dashboardCommand(),
	)
	return root
}

// noUnknownSubcommand rejects positional arguments on commands that only group subcommands.
func noUnknownSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unknown command %q for %q", errUsage, args[0], cmd.CommandPath())
	}
	return nil
}

func requireID(name string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != 1 || args[0] == "" {
			return fmt.Errorf("%w: %s is required", errUsage, name)
		}
		return nil
	}
}

// prompt reads one line, an exhausted input is reported as io.EOF.
func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) promptIfEmpty(value *string, label string) error {
	if *value != "" {
		return nil
	}
	v, err := a.prompt(label)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func describeError(err error) string {
	var statusErr *pkghttp.StatusError
	switch {
	case errors.Is(err, pkgsession.ErrRefreshRejected):
		return "not logged in"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, api.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, domain.ErrNotFound):
		return "not found"
	case errors.As(err, &statusErr) && statusErr.Message != "":
		return statusErr.Message
	default:
		return err.Error()
	}
}

// intFlag returns nil unless the flag was given on the command line.
func intFlag(cmd *cobra.Command, name string) (*int, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func boolFlag(cmd *cobra.Command, name string) (*bool, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
