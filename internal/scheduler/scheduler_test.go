package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitDone(t *testing.T, task *Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not finish")
	}
}

func TestAfter_Runs(t *testing.T) {
	var ran atomic.Bool
	task := After(5*time.Millisecond, func() { ran.Store(true) })
	waitDone(t, task)

	assert.True(t, ran.Load())
	assert.False(t, task.Cancel(), "finished task cannot be cancelled")
	assert.False(t, task.Cancelled())
}

func TestAfter_Cancel(t *testing.T) {
	var ran atomic.Bool
	task := After(time.Hour, func() { ran.Store(true) })

	assert.True(t, task.Cancel())
	assert.False(t, task.Cancel(), "second cancel is a no-op")
	waitDone(t, task)

	assert.False(t, ran.Load())
	assert.True(t, task.Cancelled())
}

func TestEvery(t *testing.T) {
	var count atomic.Int32
	task := Every(2*time.Millisecond, func() { count.Add(1) })

	require.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, time.Millisecond)
	assert.True(t, task.Cancel())
	waitDone(t, task)

	stopped := count.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, count.Load(), "no ticks after cancel")
}

func TestEvery_CancelDuringTick(t *testing.T) {
	var count atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	task := Every(time.Millisecond, func() {
		if count.Add(1) == 1 {
			close(entered)
			<-release
		}
	})

	<-entered
	assert.True(t, task.Cancel())
	close(release)
	waitDone(t, task)

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load(), "the in-flight tick finishes, no new tick starts")
}

func TestEvery_CancelFromCallback(t *testing.T) {
	var count atomic.Int32
	var task *Task
	ready := make(chan struct{})
	task = Every(time.Millisecond, func() {
		<-ready
		count.Add(1)
		task.Cancel()
	})
	close(ready)

	waitDone(t, task)
	assert.Equal(t, int32(1), count.Load())
	assert.True(t, task.Cancelled())
}

func TestTask_Stop(t *testing.T) {
	var count atomic.Int32
	task := Every(time.Millisecond, func() { count.Add(1) })
	require.Eventually(t, func() bool { return count.Load() >= 1 }, time.Second, time.Millisecond)

	assert.True(t, task.Stop())
	stopped := count.Load()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, stopped, count.Load())
	assert.False(t, task.Stop())
}

func TestGroup_CancelAll(t *testing.T) {
	var g Group
	var ran atomic.Int32

	g.After(time.Hour, func() { ran.Add(1) })
	g.After(time.Hour, func() { ran.Add(1) })
	g.Every(time.Hour, func() { ran.Add(1) })
	quick := g.After(time.Millisecond, func() { ran.Add(1) })
	waitDone(t, quick)

	assert.Equal(t, 3, g.Pending())
	assert.Equal(t, 3, g.CancelAll())
	assert.Equal(t, 0, g.Pending())
	assert.Equal(t, int32(1), ran.Load())
}
