package worker

import (
	"sync/atomic"
	"testing"
	"time"
)

type countingWorker struct {
	started atomic.Int32
	stopped atomic.Int32
}

func (w *countingWorker) Start() { w.started.Add(1) }
func (w *countingWorker) Stop()  { w.stopped.Add(1) }

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler()
	w1 := &countingWorker{}
	w2 := &countingWorker{}
	s.AddWorker(w1)
	s.AddWorker(w2)

	s.Start()
	if !s.IsRunning() {
		t.Fatal("scheduler should report running after Start")
	}

	s.Stop()
	if s.IsRunning() {
		t.Fatal("scheduler should report stopped after Stop")
	}

	if w1.started.Load() != 1 || w2.started.Load() != 1 {
		t.Errorf("expected each worker started once, got %d and %d", w1.started.Load(), w2.started.Load())
	}
	if w1.stopped.Load() != 1 || w2.stopped.Load() != 1 {
		t.Errorf("expected each worker stopped once, got %d and %d", w1.stopped.Load(), w2.stopped.Load())
	}
}

func TestSchedulerStartAfterStopIsNoop(t *testing.T) {
	s := NewScheduler()
	w := &countingWorker{}
	s.AddWorker(w)

	s.Stop()
	s.Start()

	time.Sleep(10 * time.Millisecond)
	if w.started.Load() != 0 {
		t.Errorf("worker must not start on a stopped scheduler, started %d times", w.started.Load())
	}
}
