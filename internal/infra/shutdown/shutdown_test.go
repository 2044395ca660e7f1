package shutdown_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/demo-app/internal/infra/shutdown"
	"github.com/skillcoder/demo-app/internal/infra/shutdown/mocks"
)

type chanQuiter chan os.Signal

func (q chanQuiter) Quit() <-chan os.Signal { return q }

func TestCheckTerminationFile(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("file missing returns false", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nonexistent")
		require.False(t, shutdown.CheckTerminationFile(t.Context(), logger, path))
	})

	t.Run("empty path returns false", func(t *testing.T) {
		t.Parallel()

		require.False(t, shutdown.CheckTerminationFile(t.Context(), logger, ""))
	})

	t.Run("file exists returns true", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "terminating")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		require.True(t, shutdown.CheckTerminationFile(t.Context(), logger, path))
	})
}

func TestHandler_CheckTermination(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("no file passes", func(t *testing.T) {
		t.Parallel()

		h := shutdown.New(logger, make(chanQuiter), filepath.Join(t.TempDir(), "terminating"))
		require.NoError(t, h.CheckTermination(t.Context()))
	})

	t.Run("file present fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "terminating")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		h := shutdown.New(logger, make(chanQuiter), path)
		require.ErrorIs(t, h.CheckTermination(t.Context()), shutdown.ErrTerminationFileFound)
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		h := shutdown.New(logger, make(chanQuiter), "")
		require.ErrorIs(t, h.CheckTermination(ctx), context.Canceled)
	})
}

func TestHandler_HandleSignals(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("signal cancels", func(t *testing.T) {
		t.Parallel()

		quit := make(chanQuiter, 1)
		quit <- syscall.SIGTERM

		cancelled := make(chan struct{})
		h := shutdown.New(logger, quit, "")
		h.HandleSignals(t.Context(), func() { close(cancelled) })

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Fatal("cancel was not called")
		}
	})

	t.Run("context done returns without cancel", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		h := shutdown.New(logger, make(chanQuiter), "")
		h.HandleSignals(ctx, func() { t.Error("cancel must not be called") })
	})
}

func TestGracefulShutdown(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("empty list returns nil", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, shutdown.GracefulShutdown(t.Context(), logger, nil))
	})

	t.Run("one shutdowner error returns error", func(t *testing.T) {
		t.Parallel()

		m := mocks.NewMockShutdowner(t)
		m.EXPECT().Name().Return("http-server").Once()
		m.EXPECT().Shutdown(mock.Anything).Return(context.DeadlineExceeded).Once()

		err := shutdown.GracefulShutdown(t.Context(), logger, []shutdown.Shutdowner{m})
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.ErrorContains(t, err, "http-server")
	})

	t.Run("multiple shutdowners called in reverse order", func(t *testing.T) {
		t.Parallel()

		var order []string

		first := mocks.NewMockShutdowner(t)
		first.EXPECT().Name().Return("pinger-service").Once()
		first.EXPECT().Shutdown(mock.Anything).Run(func(context.Context) {
			order = append(order, "pinger-service")
		}).Return(nil).Once()

		second := mocks.NewMockShutdowner(t)
		second.EXPECT().Name().Return("http-server").Once()
		second.EXPECT().Shutdown(mock.Anything).Run(func(context.Context) {
			order = append(order, "http-server")
		}).Return(nil).Once()

		err := shutdown.GracefulShutdown(t.Context(), logger, []shutdown.Shutdowner{first, second})
		require.NoError(t, err)
		require.Equal(t, []string{"http-server", "pinger-service"}, order)
	})

	t.Run("cancelled origin context still shuts down", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		m := mocks.NewMockShutdowner(t)
		m.EXPECT().Name().Return("metrics-server").Once()
		m.EXPECT().Shutdown(mock.Anything).RunAndReturn(func(ctx context.Context) error {
			return ctx.Err()
		}).Once()

		require.NoError(t, shutdown.GracefulShutdown(ctx, logger, []shutdown.Shutdowner{m}))
	})
}
