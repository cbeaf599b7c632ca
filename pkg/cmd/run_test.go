package cmd_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klwxsrx/vocab-client/pkg/cmd"
	"github.com/klwxsrx/vocab-client/pkg/log"
)

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRun(t *testing.T) {
	jobErr := errors.New("command failed")

	tests := []struct {
		name      string
		job       cmd.Job
		expectErr error
	}{
		{
			name: "first_completed_stops_others",
			job:  func(context.Context) error { return nil },
		},
		{
			name:      "error_is_returned",
			job:       func(context.Context) error { return jobErr },
			expectErr: jobErr,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			done := make(chan error, 1)
			go func() {
				done <- cmd.Run(context.Background(), log.New(log.LevelDisabled), tc.job, blockUntilDone)
			}()

			select {
			case err := <-done:
				if tc.expectErr == nil {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, tc.expectErr)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("run did not stop the remaining jobs")
			}
		})
	}
}

func TestRun_RecoversJobPanic(t *testing.T) {
	err := cmd.Run(context.Background(), log.New(log.LevelDisabled), func(context.Context) error {
		panic("boom")
	}, blockUntilDone)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "job panicked: boom")
}

func TestRun_ParentCancellationIsNotAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, cmd.Run(ctx, log.New(log.LevelDisabled), blockUntilDone))
}

func TestInitLogger_FallsBackToInfo(t *testing.T) {
	t.Setenv("VOCAB_TEST_LOG_LEVEL", "verbose")

	assert.NotNil(t, cmd.InitLogger("VOCAB_TEST_LOG_LEVEL"))
}
