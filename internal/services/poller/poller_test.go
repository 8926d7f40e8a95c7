package services

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_FirstIterationImmediate(t *testing.T) {
	var runs atomic.Int32
	done := make(chan struct{})
	p := NewPoller("test", time.Hour, func(ctx context.Context) {
		if runs.Add(1) == 1 {
			close(done)
		}
	}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go p.Run(ctx)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("первая итерация не запустилась без ожидания тика")
	}
	cancel()
}

func TestRun_NewTickCancelsPrevious(t *testing.T) {
	canceled := make(chan struct{}, 10)
	var runs atomic.Int32
	p := NewPoller("test", 20*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
		<-ctx.Done()
		canceled <- struct{}{}
	}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go p.Run(ctx)

	// Задача никогда не завершается сама, поэтому каждый следующий
	// тик должен отменить предыдущую итерацию.
	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("новый тик не отменил предыдущую итерацию")
	}
	cancel()

	require.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	p := NewPoller("test", 10*time.Millisecond, func(ctx context.Context) {}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(stopped)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("поллер не остановился после отмены контекста")
	}
	assert.Error(t, ctx.Err())
}
