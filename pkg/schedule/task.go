// Package schedule runs periodic work on a goroutine that can be stopped and
// restarted.
package schedule

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"feuerwehr-web/pkg/logger"
)

// Task calls fn every interval until stopped. A Task may be started again
// after Stop or after the context passed to Start ends.
type Task struct {
	name     string
	interval time.Duration
	fn       func(context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	// reset carries true when fn should run before the interval restarts.
	reset chan bool
}

func NewTask(name string, interval time.Duration, fn func(context.Context)) *Task {
	return &Task{name: name, interval: interval, fn: fn}
}

// Start launches the loop. It is a no-op when the task is already running or
// the interval is not positive.
func (t *Task) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil || t.interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	t.reset = make(chan bool, 1)
	go t.run(ctx, t.done, t.reset)
	logger.Debug("task started", zap.String("task", t.name), zap.Duration("interval", t.interval))
}

// Stop cancels the loop and waits for a running fn to return. Calling Stop on
// a stopped task does nothing.
func (t *Task) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done, t.reset = nil, nil, nil
	t.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	logger.Debug("task stopped", zap.String("task", t.name))
}

// Reset restarts the current interval without calling fn.
func (t *Task) Reset() { t.signal(false) }

// Trigger calls fn on the task goroutine as soon as it is idle, then restarts
// the interval.
func (t *Task) Trigger() { t.signal(true) }

func (t *Task) signal(run bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reset == nil {
		return
	}
	select {
	case t.reset <- run:
	default:
		if run {
			// Upgrade a pending Reset.
			select {
			case <-t.reset:
			default:
			}
			t.reset <- true
		}
	}
}

func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

func (t *Task) run(ctx context.Context, done chan struct{}, reset <-chan bool) {
	defer close(done)
	defer t.release(done)
	timer := time.NewTimer(t.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case run := <-reset:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			if run {
				t.call(ctx)
			}
			timer.Reset(t.interval)
		case <-timer.C:
			t.call(ctx)
			timer.Reset(t.interval)
		}
	}
}

// release clears the running state when the loop ends on its own, which
// happens when the parent context is done.
func (t *Task) release(done chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != done {
		return
	}
	t.cancel()
	t.cancel, t.done, t.reset = nil, nil, nil
}

func (t *Task) call(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", zap.String("task", t.name), zap.Any("panic", r))
		}
	}()
	t.fn(ctx)
}
