package harness

import (
	"context"
	"errors"
	"sync"

	"gameharness/internal/app/ports"

	"go.uber.org/zap"
)

var (
	ErrDispatcherClosed = errors.New("dispatcher closed")
	ErrTaskPanicked     = errors.New("dispatch task panicked")
)

// Task runs on the dispatch goroutine with the currently attached game, which
// may be nil.
type Task func(ctx context.Context, game ports.Game)

type job struct {
	ctx  context.Context
	task Task
	done chan error
}

// Dispatcher runs every task on one goroutine, in submission order. It owns
// the attached game reference; nothing else reads or writes it.
type Dispatcher struct {
	tasks   chan job
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
	logger  *zap.Logger

	game ports.Game
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		tasks:   make(chan job),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  logger,
	}
	go d.run()
	return d
}

// Do runs task and waits for it to finish. If ctx ends before the task is
// picked up Do returns ctx.Err(); a running task is never abandoned.
func (d *Dispatcher) Do(ctx context.Context, task Task) error {
	j := job{ctx: ctx, task: task, done: make(chan error, 1)}
	select {
	case d.tasks <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-d.quit:
		return ErrDispatcherClosed
	}
	return <-j.done
}

// Attach makes game visible to subsequent tasks.
func (d *Dispatcher) Attach(ctx context.Context, game ports.Game) error {
	return d.Do(ctx, func(context.Context, ports.Game) { d.game = game })
}

func (d *Dispatcher) Detach(ctx context.Context) error {
	return d.Attach(ctx, nil)
}

// Close stops the dispatch goroutine after the running task, if any. Pending
// and later submissions fail with ErrDispatcherClosed.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.quit) })
	<-d.stopped
}

func (d *Dispatcher) run() {
	defer close(d.stopped)
	for {
		select {
		case j := <-d.tasks:
			j.done <- d.exec(j)
		case <-d.quit:
			return
		}
	}
}

func (d *Dispatcher) exec(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatch task panicked", zap.Any("panic", r), zap.Stack("stack"))
			err = ErrTaskPanicked
		}
	}()
	j.task(j.ctx, d.game)
	return nil
}
