package hero

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// OrbitRadius is the camera's distance from the orbit centre.
	OrbitRadius = 30.0
	// Damping is the fraction of the remaining angle covered per frame.
	Damping = 0.1
	// DragSensitivity converts pointer pixels to radians.
	DragSensitivity = 0.003
	// PitchLimit bounds the vertical target angle so the camera never flips.
	PitchLimit = math.Pi / 3
)

// Orbit is a damped camera orbit around a fixed centre. Angles are (pitch, yaw) in radians.
type Orbit struct {
	Target  mgl64.Vec2
	Current mgl64.Vec2
	Centre  mgl64.Vec3
	Radius  float64
}

// NewOrbit returns an orbit at rest around centre.
func NewOrbit(centre mgl64.Vec3, radius float64) *Orbit {
	return &Orbit{Centre: centre, Radius: radius}
}

// Drag moves the target by a pointer delta in pixels: horizontal motion yaws, vertical pitches.
func (o *Orbit) Drag(dx, dy float64) {
	o.Target[1] += dx * DragSensitivity
	o.Target[0] = mgl64.Clamp(o.Target[0]+dy*DragSensitivity, -PitchLimit, PitchLimit)
}

// Step moves the current angles a Damping fraction toward the target.
func (o *Orbit) Step() {
	o.Current = o.Current.Add(o.Target.Sub(o.Current).Mul(Damping))
}

// Eye returns the camera position for the current angles.
func (o *Orbit) Eye() mgl64.Vec3 {
	pitch, yaw := o.Current[0], o.Current[1]
	return mgl64.Vec3{
		o.Centre[0] + o.Radius*math.Sin(yaw)*math.Cos(pitch),
		o.Centre[1] + o.Radius*math.Sin(pitch),
		o.Centre[2] + o.Radius*math.Cos(yaw)*math.Cos(pitch),
	}
}
