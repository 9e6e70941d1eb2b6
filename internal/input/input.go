// Package input carries pointer, touch and resize events from the window layer to subscribers.
// Subscriptions are explicit so components can tie them to their own mount/unmount lifecycle.
package input

// Kind identifies an event type.
type Kind int

const (
	PointerDown Kind = iota
	PointerMove
	PointerUp
	TouchStart
	TouchMove
	TouchEnd
	Resize
)

func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case TouchStart:
		return "touchstart"
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	case Resize:
		return "resize"
	}
	return "unknown"
}

// Mouse buttons.
const (
	ButtonPrimary   = 0
	ButtonSecondary = 1
	ButtonMiddle    = 2
)

// Event is a single input notification. X/Y are window coordinates of the pointer or of the
// first touch point; Touches is the number of active touch points; Width/Height are set for Resize.
type Event struct {
	Kind    Kind
	X, Y    float64
	Button  int
	Touches int
	Width   int
	Height  int
}

// Handler receives events synchronously on the frame thread.
type Handler func(Event)

// Source is anything events can be subscribed to. The returned func removes the subscription
// and is safe to call more than once.
type Source interface {
	Subscribe(h Handler) (unsubscribe func())
}

// Bus is a synchronous Source. Publish delivers to handlers in subscription order.
// It is not safe for concurrent use; everything runs on the frame thread.
type Bus struct {
	next     int
	order    []int
	handlers map[int]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe adds h and returns its unsubscribe func.
func (b *Bus) Subscribe(h Handler) func() {
	id := b.next
	b.next++
	b.handlers[id] = h
	b.order = append(b.order, id)
	return func() {
		if _, ok := b.handlers[id]; !ok {
			return
		}
		delete(b.handlers, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers e to every current subscriber. Handlers may unsubscribe during delivery.
func (b *Bus) Publish(e Event) {
	ids := append([]int(nil), b.order...)
	for _, id := range ids {
		if h, ok := b.handlers[id]; ok {
			h(e)
		}
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	return len(b.handlers)
}
