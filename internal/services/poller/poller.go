// Package services содержит бизнес-логику приложения.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task — одна итерация опроса. Контекст отменяется при появлении
// нового тика или при остановке поллера.
type Task func(ctx context.Context)

// Poller запускает задачу по таймеру. Если предыдущая итерация
// к моменту нового тика еще не завершилась, ее контекст отменяется:
// устаревший результат никому не нужен.
type Poller struct {
	name     string
	interval time.Duration
	task     Task
	log      *slog.Logger
}

// NewPoller создает новый экземпляр Poller.
func NewPoller(name string, interval time.Duration, task Task, log *slog.Logger) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		task:     task,
		log:      log,
	}
}

// Run блокируется до отмены ctx. Первая итерация выполняется сразу,
// не дожидаясь первого тика.
func (p *Poller) Run(ctx context.Context) {
	const op = "services.poller.Run"
	log := p.log.With(
		slog.String("op", op),
		slog.String("poller", p.name),
	)
	log.Info("poller started", slog.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		wg     sync.WaitGroup
		cancel context.CancelFunc
	)

	launch := func() {
		if cancel != nil {
			cancel()
			wg.Wait()
		}
		var taskCtx context.Context
		taskCtx, cancel = context.WithCancel(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.task(taskCtx)
		}()
	}

	launch()
	for {
		select {
		case <-ctx.Done():
			if cancel != nil {
				cancel()
			}
			wg.Wait()
			log.Info("poller stopped")
			return
		case <-ticker.C:
			launch()
		}
	}
}
