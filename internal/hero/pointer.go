package hero

import (
	"github.com/go-gl/mathgl/mgl64"

	"showcase/internal/input"
)

// Dragger receives pointer drag deltas in pixels.
type Dragger interface {
	Drag(dx, dy float64)
}

// DragState is the pointer controller state.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

// Pointer turns primary-button and single-finger drags into Dragger deltas.
type Pointer struct {
	target Dragger
	state  DragState
	prev   mgl64.Vec2
}

// NewPointer returns an idle controller driving target.
func NewPointer(target Dragger) *Pointer {
	return &Pointer{target: target}
}

// State returns the current state.
func (p *Pointer) State() DragState {
	return p.state
}

// Handle consumes one input event. Resize events are ignored.
func (p *Pointer) Handle(e input.Event) {
	switch e.Kind {
	case input.PointerDown:
		if e.Button == input.ButtonPrimary {
			p.begin(e)
		}
	case input.TouchStart:
		if e.Touches == 1 {
			p.begin(e)
		}
	case input.PointerMove:
		if p.state == Dragging {
			p.move(e)
		}
	case input.TouchMove:
		if p.state == Dragging && e.Touches == 1 {
			p.move(e)
		}
	case input.PointerUp, input.TouchEnd:
		p.state = Idle
	}
}

func (p *Pointer) begin(e input.Event) {
	p.state = Dragging
	p.prev = mgl64.Vec2{e.X, e.Y}
}

func (p *Pointer) move(e input.Event) {
	cur := mgl64.Vec2{e.X, e.Y}
	d := cur.Sub(p.prev)
	p.target.Drag(d[0], d[1])
	p.prev = cur
}
