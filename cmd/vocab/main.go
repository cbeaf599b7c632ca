package main

import (
	"context"
	"fmt"
	"os"

	commoncmd "github.com/klwxsrx/vocab-client/internal/pkg/cmd"
	"github.com/klwxsrx/vocab-client/internal/vocab"
	pkgcmd "github.com/klwxsrx/vocab-client/pkg/cmd"
	pkglog "github.com/klwxsrx/vocab-client/pkg/log"
)

const dotenvFile = ".env"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx := context.Background()

	cfg, err := commoncmd.LoadConfig(dotenvFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	logger := pkgcmd.InitLogger(commoncmd.EnvKey("logLevel"), pkglog.WithOutput(os.Stderr), pkglog.WithTextFormat())
	defer pkgcmd.HandleAppPanic(ctx, logger)

	infra := commoncmd.NewInfrastructureContainer(ctx, cfg, logger)
	defer infra.Close(ctx)

	cli := newApp(os.Stdin, os.Stdout, os.Stderr)
	cli.deps = vocab.NewDependencyContainer(
		infra.TokenStore,
		infra.HTTPClientFactory,
		cli,
		infra.Metrics,
		infra.Logger,
	)

	var cmdErr error
	jobs := []pkgcmd.Job{
		func(ctx context.Context) error {
			cmdErr = cli.run(ctx, args)
			return nil
		},
		pkgcmd.TermSignalAwaiter,
	}
	if cfg.MetricsAddress != "" {
		jobs = append(jobs, infra.MetricsServer.MustLoad().Listener)
	}

	if err := pkgcmd.Run(ctx, logger, jobs...); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	if cmdErr != nil {
		fmt.Fprintln(os.Stderr, "error:", describeError(cmdErr))
		return 1
	}
	return 0
}
