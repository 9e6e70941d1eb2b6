package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"showcase/internal/input"
)

// State is one frame's snapshot of pointer, touch and window state.
type State struct {
	X, Y           float64
	Buttons        [3]bool
	Touches        int
	TouchX, TouchY float64
	Width, Height  int
}

// Diff turns the change between two snapshots into events: resize first, then pointer move,
// then button transitions, then touch. Touch events are emitted only when touch is true.
// A resize needs a previous non-zero size so the first frame does not report one.
func Diff(prev, cur State, touch bool) []input.Event {
	var out []input.Event
	if prev.Width > 0 && prev.Height > 0 && (prev.Width != cur.Width || prev.Height != cur.Height) {
		out = append(out, input.Event{Kind: input.Resize, Width: cur.Width, Height: cur.Height})
	}
	if prev.X != cur.X || prev.Y != cur.Y {
		out = append(out, input.Event{Kind: input.PointerMove, X: cur.X, Y: cur.Y})
	}
	for b := range cur.Buttons {
		switch {
		case cur.Buttons[b] && !prev.Buttons[b]:
			out = append(out, input.Event{Kind: input.PointerDown, X: cur.X, Y: cur.Y, Button: b})
		case !cur.Buttons[b] && prev.Buttons[b]:
			out = append(out, input.Event{Kind: input.PointerUp, X: cur.X, Y: cur.Y, Button: b})
		}
	}
	if !touch {
		return out
	}
	t := input.Event{X: cur.TouchX, Y: cur.TouchY, Touches: cur.Touches}
	switch {
	case cur.Touches > prev.Touches:
		t.Kind = input.TouchStart
		out = append(out, t)
	case cur.Touches < prev.Touches:
		t.Kind = input.TouchEnd
		out = append(out, t)
	case cur.Touches > 0 && (cur.TouchX != prev.TouchX || cur.TouchY != prev.TouchY):
		t.Kind = input.TouchMove
		out = append(out, t)
	}
	return out
}

// Poller samples raylib input once per frame and publishes the differences.
type Poller struct {
	bus   *input.Bus
	touch bool
	prev  State
}

// NewPoller publishes to bus. Touch events are read only when touch is true.
func NewPoller(bus *input.Bus, touch bool) *Poller {
	return &Poller{bus: bus, touch: touch}
}

// Poll reads the current state and publishes events. When paused (console open) pointer
// buttons read as released so an in-progress drag ends, and moves are not reported.
func (p *Poller) Poll(paused bool) {
	cur := Sample(p.touch)
	if paused {
		cur.X, cur.Y = p.prev.X, p.prev.Y
		cur.Buttons = [3]bool{}
		cur.Touches, cur.TouchX, cur.TouchY = 0, 0, 0
	}
	for _, e := range Diff(p.prev, cur, p.touch) {
		p.bus.Publish(e)
	}
	p.prev = cur
}

// Sample reads raylib's pointer, touch and window state.
func Sample(touch bool) State {
	m := rl.GetMousePosition()
	s := State{
		X:      float64(m.X),
		Y:      float64(m.Y),
		Width:  rl.GetScreenWidth(),
		Height: rl.GetScreenHeight(),
		Buttons: [3]bool{
			rl.IsMouseButtonDown(rl.MouseButtonLeft),
			rl.IsMouseButtonDown(rl.MouseButtonRight),
			rl.IsMouseButtonDown(rl.MouseButtonMiddle),
		},
	}
	if touch {
		s.Touches = int(rl.GetTouchPointCount())
		if s.Touches > 0 {
			tp := rl.GetTouchPosition(0)
			s.TouchX, s.TouchY = float64(tp.X), float64(tp.Y)
		}
	}
	return s
}
