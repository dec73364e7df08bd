package sched

// ListenerID identifies a registered listener. The zero value is never issued.
type ListenerID uint64

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// Listeners is a typed registry of event handlers, emitted in registration order.
type Listeners[T any] struct {
	next ListenerID
	list []listener[T]
}

func (l *Listeners[T]) Add(fn func(T)) ListenerID {
	l.next++
	l.list = append(l.list, listener[T]{id: l.next, fn: fn})
	return l.next
}

// Remove deregisters id and reports whether it was registered.
func (l *Listeners[T]) Remove(id ListenerID) bool {
	for i, h := range l.list {
		if h.id == id {
			l.list = append(l.list[:i:i], l.list[i+1:]...)
			return true
		}
	}
	return false
}

// Emit calls every listener registered at the time of the call. Listeners
// removed by an earlier handler in the same Emit still run.
func (l *Listeners[T]) Emit(v T) {
	snapshot := l.list
	for _, h := range snapshot {
		h.fn(v)
	}
}

func (l *Listeners[T]) Len() int { return len(l.list) }
