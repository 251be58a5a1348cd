// Package dispatch provides the engine's single serialized mutation
// point. The host simulation owns state that is not safe for concurrent
// mutation (gameplay commands, permission writes); every touch of that
// state is funneled through one goroutine here, while network I/O and
// cache traffic stay on background goroutines.
package dispatch

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/indusnetwork/bridge/internal/model"
)

// Dispatcher executes submitted tasks one at a time on a dedicated
// goroutine, in submission order.
type Dispatcher struct {
	logger *slog.Logger

	tasks   chan func()
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// New creates a Dispatcher and starts its loop. queueSize bounds the
// number of tasks waiting for the mutation point; submitters block once
// it is full.
func New(queueSize int, logger *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	d := &Dispatcher{
		logger:  logger,
		tasks:   make(chan func(), queueSize),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go d.run()
	return d
}

// Submit queues fn for execution on the mutation point and returns
// without waiting for it to run.
func (d *Dispatcher) Submit(fn func()) error {
	select {
	case <-d.quit:
		return model.ErrDispatcherClosed
	default:
	}

	select {
	case d.tasks <- fn:
		return nil
	case <-d.quit:
		return model.ErrDispatcherClosed
	}
}

// SubmitWait queues fn and blocks until it has run on the mutation
// point, the context is done, or the dispatcher closes.
func (d *Dispatcher) SubmitWait(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	if err := d.Submit(func() { errCh <- fn() }); err != nil {
		return err
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting new tasks, runs whatever is already queued, and
// waits for the loop to exit.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.quit) })
	<-d.stopped
}

func (d *Dispatcher) run() {
	defer close(d.stopped)
	for {
		select {
		case fn := <-d.tasks:
			d.invoke(fn)
		case <-d.quit:
			// Drain tasks that were queued before Close.
			for {
				select {
				case fn := <-d.tasks:
					d.invoke(fn)
				default:
					return
				}
			}
		}
	}
}

// invoke runs one task, recovering panics so a bad command cannot kill
// the mutation point.
func (d *Dispatcher) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic on mutation point",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()
	fn()
}
