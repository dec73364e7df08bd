// Package sched is the cooperative host scheduler behind the display loop:
// one-shot per-frame callbacks, one-shot timers on the frame clock, and
// typed listener registries. Nothing here is safe for concurrent use; every
// call is expected on the thread that owns the window.
package sched

import "time"

// FrameID identifies a pending frame request. The zero value is never issued.
type FrameID uint64

// FrameFunc receives the frame timestamp.
type FrameFunc func(now time.Duration)

type frameReq struct {
	id FrameID
	fn FrameFunc
}

// Frames queues callbacks for the next displayed frame. A callback runs once;
// tasks that want to keep animating re-request from inside the callback.
type Frames struct {
	next    FrameID
	pending []frameReq
	running []frameReq
}

// Request registers fn for the next Run.
func (f *Frames) Request(fn FrameFunc) FrameID {
	f.next++
	f.pending = append(f.pending, frameReq{id: f.next, fn: fn})
	return f.next
}

// Cancel drops a pending request. It reports whether the request was found.
// Cancelling from inside a frame callback also removes requests queued for
// later in the same frame.
func (f *Frames) Cancel(id FrameID) bool {
	if drop(&f.pending, id) {
		return true
	}
	return drop(&f.running, id)
}

// Run invokes the callbacks requested before the call, in request order.
// Requests made during Run are held for the following frame.
func (f *Frames) Run(now time.Duration) int {
	f.running, f.pending = f.pending, nil
	n := 0
	for len(f.running) > 0 {
		req := f.running[0]
		f.running = f.running[1:]
		req.fn(now)
		n++
	}
	f.running = nil
	return n
}

// Len returns the number of requests waiting for the next frame.
func (f *Frames) Len() int { return len(f.pending) }

func drop(list *[]frameReq, id FrameID) bool {
	for i, r := range *list {
		if r.id == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}
