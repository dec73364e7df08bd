package sched

import (
	"container/heap"
	"time"
)

// Timer is a one-shot callback scheduled on a Timers queue.
type Timer struct {
	deadline time.Duration
	seq      uint64
	fn       func()
	idx      int // heap index, -1 once fired or stopped
	q        *Timers
}

// Deadline returns the clock value at which the timer fires.
func (t *Timer) Deadline() time.Duration { return t.deadline }

// Pending reports whether the timer has neither fired nor been stopped.
func (t *Timer) Pending() bool { return t != nil && t.idx >= 0 }

// Stop cancels the timer. It reports whether the call prevented the callback
// from running; stopping a fired or already stopped timer returns false.
func (t *Timer) Stop() bool {
	if !t.Pending() {
		return false
	}
	heap.Remove(&t.q.h, t.idx)
	t.idx = -1
	return true
}

// Timers runs one-shot callbacks against a clock advanced by the display loop.
type Timers struct {
	now time.Duration
	seq uint64
	h   timerHeap
}

// Now returns the clock value of the last Advance.
func (q *Timers) Now() time.Duration { return q.now }

// AfterFunc schedules fn to run on the first Advance at or past Now()+d.
func (q *Timers) AfterFunc(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	q.seq++
	t := &Timer{deadline: q.now + d, seq: q.seq, fn: fn, q: q}
	heap.Push(&q.h, t)
	return t
}

// Advance moves the clock to now and fires every due timer in deadline order.
// The clock never runs backwards. It returns the number of callbacks run.
func (q *Timers) Advance(now time.Duration) int {
	if now > q.now {
		q.now = now
	}
	n := 0
	for q.h.Len() > 0 && q.h[0].deadline <= q.now {
		t := heap.Pop(&q.h).(*Timer)
		t.idx = -1
		t.fn()
		n++
	}
	return n
}

// Len returns the number of pending timers.
func (q *Timers) Len() int { return q.h.Len() }

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].idx = i
	h[j].idx = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.idx = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
