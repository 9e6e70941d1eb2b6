package hero

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FloatOffset returns the bobbing displacement of object i at time t (seconds).
func FloatOffset(p Params, t float64, i int) mgl64.Vec3 {
	phase := float64(i)
	return mgl64.Vec3{
		math.Cos(t*p.FloatSpeed*0.7+phase) * p.FloatAmplitude * 0.5,
		math.Sin(t*p.FloatSpeed+phase) * p.FloatAmplitude,
		math.Sin(t*p.FloatSpeed*0.5+phase) * p.FloatAmplitude * 0.3,
	}
}

// Pulse returns the uniform scale multiplier of object i at time t.
func Pulse(p Params, t float64, i int) float64 {
	return math.Sin(t*p.PulseSpeed+float64(i))*p.PulseAmplitude + 1
}

// PoseAt computes the pose of object i at time t after frame steps. Every component is derived
// from the base pose, so evaluating the same (t, frame) twice gives identical results.
func PoseAt(base Pose, p Params, t float64, i int, frame uint64) Pose {
	pulse := Pulse(p, t, i)
	return Pose{
		Position: base.Position.Add(FloatOffset(p, t, i)),
		Rotation: base.Rotation.Add(p.RotationSpeed.Mul(float64(frame))),
		Scale:    base.Scale.Mul(pulse),
	}
}

func outlinePose(owner Pose) Pose {
	return Pose{Position: owner.Position, Rotation: owner.Rotation, Scale: owner.Scale.Mul(OutlineScale)}
}

// Animate advances every object, and its outline, to time t and the given frame count.
func Animate(s *Scene, t float64, frame uint64) {
	for i := range s.Objects {
		o := &s.Objects[i]
		o.Pose = PoseAt(o.Base, o.Params, t, i, frame)
		if o.Outline != nil {
			o.Outline.Pose = outlinePose(o.Pose)
		}
	}
}
