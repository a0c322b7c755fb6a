package workers

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/1F47E/go-framereel/internal/logger"
)

var log = logger.Log

var ErrBusy = errors.New("a conversion is already running")

// Worker runs at most one task at a time in the background.
type Worker struct {
	ctx  context.Context
	busy atomic.Bool
	seq  atomic.Int64
}

func NewWorker(ctx context.Context) *Worker {
	return &Worker{ctx: ctx}
}

// Busy reports whether a task is in flight.
func (w *Worker) Busy() bool {
	return w.busy.Load()
}

// Task is a supervised background run.
type Task struct {
	id     int64
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Submit starts fn in the background. It fails with ErrBusy while another
// task is still running. Panics in fn are turned into errors.
func (w *Worker) Submit(fn func(ctx context.Context) error) (*Task, error) {
	if !w.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(w.ctx)
	t := &Task{
		id:     w.seq.Add(1),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		name := fmt.Sprintf("Task #%d", t.id)
		log.Debugf("%s started", name)
		now := time.Now()
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("%s panicked: %v", name, r)
			}
			cancel()
			w.busy.Store(false)
			log.Debugf("%s finished. Took time: %s", name, time.Since(now))
			close(t.done)
		}()
		t.err = fn(ctx)
	}()
	return t, nil
}

// Cancel asks the task to stop. It still has to be waited for.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed once the task has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task returns and reports its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}
