package cmd

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/klwxsrx/vocab-client/pkg/log"
)

type Job func(ctx context.Context) error

// Run starts every job and stops the rest as soon as the first one returns.
func Run(ctx context.Context, logger log.Logger, job ...Job) error {
	errCompleted := errors.New("job completed")
	loggingAdapter := func(ctx context.Context, job Job, logger log.Logger) func() error {
		return func() (err error) {
			defer func() {
				if msg := recover(); msg != nil {
					logPanic(ctx, logger, msg, debug.Stack())
					err = fmt.Errorf("job panicked: %v", msg)
				}
			}()

			err = job(ctx)
			if err == nil || errors.Is(err, ctx.Err()) {
				return errCompleted
			}

			logger.WithError(err).Error(ctx, "running job completed with error")
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, j := range job {
		group.Go(loggingAdapter(groupCtx, j, logger))
	}

	err := group.Wait()
	if !errors.Is(err, errCompleted) {
		return err
	}

	return nil
}
