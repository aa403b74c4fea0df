// Package scheduler runs delayed and repeating callbacks that can be cancelled.
package scheduler

import (
	"sync"
	"time"
)

type state int

const (
	pending state = iota
	running
	finished
	cancelled
)

// Task is a scheduled callback
type Task struct {
	stop  chan struct{}
	done  chan struct{}
	state state
	mu    sync.Mutex
}

func newTask() *Task {
	return &Task{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// After runs fn once after delay unless the task is cancelled first
func After(delay time.Duration, fn func()) *Task {
	t := newTask()
	go func() {
		defer close(t.done)
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-t.stop:
			return
		case <-timer.C:
		}

		if !t.transition(pending, running) {
			return
		}
		fn()
		t.transition(running, finished)
	}()
	return t
}

// Every runs fn each interval until the task is cancelled. A tick that
// passed its cancellation check before Cancel may still be running when
// Cancel returns; use Stop to also wait for it. fn may cancel its own task.
func Every(interval time.Duration, fn func()) *Task {
	t := newTask()
	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
			}
			if t.Cancelled() {
				return
			}
			fn()
		}
	}()
	return t
}

func (t *Task) transition(from, to state) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != from {
		return false
	}
	t.state = to
	return true
}

// Cancel stops the task. It reports whether a pending callback was prevented;
// a one-shot callback that already started is not interrupted.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != pending {
		return false
	}
	t.state = cancelled
	close(t.stop)
	return true
}

// Cancelled reports whether Cancel stopped the task
func (t *Task) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == cancelled
}

// Stop cancels the task and waits for its goroutine to exit, so no callback
// is running or will run once it returns. It must not be called from fn.
func (t *Task) Stop() bool {
	prevented := t.Cancel()
	<-t.done
	return prevented
}

// Done is closed once the task's goroutine has exited
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Group tracks tasks so they can be cancelled together
type Group struct {
	tasks []*Task
	mu    sync.Mutex
}

// After schedules a one-shot task in the group
func (g *Group) After(delay time.Duration, fn func()) *Task {
	return g.add(After(delay, fn))
}

// Every schedules a repeating task in the group
func (g *Group) Every(interval time.Duration, fn func()) *Task {
	return g.add(Every(interval, fn))
}

func (g *Group) add(t *Task) *Task {
	g.mu.Lock()
	defer g.mu.Unlock()

	live := g.tasks[:0]
	for _, existing := range g.tasks {
		select {
		case <-existing.Done():
		default:
			live = append(live, existing)
		}
	}
	g.tasks = append(live, t)
	return t
}

// Pending returns the number of tasks whose goroutines are still alive
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, t := range g.tasks {
		select {
		case <-t.Done():
		default:
			n++
		}
	}
	return n
}

// CancelAll cancels every task in the group and returns how many were prevented
func (g *Group) CancelAll() int {
	g.mu.Lock()
	tasks := g.tasks
	g.tasks = nil
	g.mu.Unlock()

	n := 0
	for _, t := range tasks {
		if t.Cancel() {
			n++
		}
	}
	return n
}
