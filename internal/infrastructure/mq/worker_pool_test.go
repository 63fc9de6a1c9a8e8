package mq

import (
	"sync/atomic"
	"testing"
)

func TestTaskPoolRunsQueuedTasksBeforeClose(t *testing.T) {
	p := NewTaskPool(2, 16)
	var done int32
	for i := 0; i < 10; i++ {
		if !p.Submit(func() { atomic.AddInt32(&done, 1) }) {
			t.Fatalf("task %d rejected", i)
		}
	}
	p.Close()
	if got := atomic.LoadInt32(&done); got != 10 {
		t.Fatalf("ran %d tasks, want 10", got)
	}
	if p.Submit(func() {}) {
		t.Fatal("submit accepted after close")
	}
	p.Close()
}

func TestTaskPoolRecoversFromPanic(t *testing.T) {
	p := NewTaskPool(1, 4)
	var done int32
	p.Submit(func() { panic("boom") })
	p.Submit(func() { atomic.AddInt32(&done, 1) })
	p.Close()
	if atomic.LoadInt32(&done) != 1 {
		t.Fatal("worker stopped after panic")
	}
}

func TestTaskPoolDropsWhenFull(t *testing.T) {
	p := NewTaskPool(1, 1)
	block := make(chan struct{})
	started := make(chan struct{})
	p.Submit(func() {
		close(started)
		<-block
	})
	<-started
	if !p.Submit(func() {}) {
		t.Fatal("buffered task rejected")
	}
	if p.Submit(func() {}) {
		t.Fatal("task accepted beyond buffer")
	}
	close(block)
	p.Close()
}
