package graphics

import "time"

// Loop is a cooperative per-frame scheduler. Callbacks run once per Step in the order they
// were scheduled; a cancelled callback never runs again, even within the current Step.
type Loop struct {
	next  int
	order []int
	fns   map[int]func(time.Time)
}

// NewLoop returns an empty loop.
func NewLoop() *Loop {
	return &Loop{fns: make(map[int]func(time.Time))}
}

// Schedule registers fn to run every frame and returns its cancel func. Cancel is idempotent.
func (l *Loop) Schedule(fn func(now time.Time)) func() {
	id := l.next
	l.next++
	l.fns[id] = fn
	l.order = append(l.order, id)
	return func() {
		if _, ok := l.fns[id]; !ok {
			return
		}
		delete(l.fns, id)
		for i, o := range l.order {
			if o == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}

// Step runs every scheduled callback once. Callbacks scheduled during Step first run on the next Step.
func (l *Loop) Step(now time.Time) {
	ids := append([]int(nil), l.order...)
	for _, id := range ids {
		if fn, ok := l.fns[id]; ok {
			fn(now)
		}
	}
}

// Len returns the number of scheduled callbacks.
func (l *Loop) Len() int {
	return len(l.fns)
}
