package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/klwxsrx/vocab-client/pkg/log"
)

const exitCodePanic = 2

// HandleAppPanic must be deferred directly by main, a recovered panic is logged and the process exits.
func HandleAppPanic(ctx context.Context, logger log.Logger) {
	msg := recover()
	if msg == nil {
		return
	}

	logPanic(ctx, logger, msg, debug.Stack())
	os.Exit(exitCodePanic)
}

func logPanic(ctx context.Context, logger log.Logger, msg any, stack []byte) {
	logger.WithField("panic", log.Fields{
		"message": fmt.Sprintf("%v", msg),
		"stack":   string(stack),
	}).Error(ctx, "app failed with panic")
}
