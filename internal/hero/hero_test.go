package hero

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"showcase/internal/input"
)

type fakeSurface struct{ w, h int }

func (s fakeSurface) Size() (int, int) { return s.w, s.h }

type fakeRenderer struct {
	renders   int
	width     int
	height    int
	geometry  map[int]int
	material  map[int]int
	closes    int
	closeErr  error
	lastScene *Scene
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{geometry: map[int]int{}, material: map[int]int{}}
}

func (r *fakeRenderer) Render(s *Scene)             { r.renders++; r.lastScene = s }
func (r *fakeRenderer) Resize(w, h int)             { r.width, r.height = w, h }
func (r *fakeRenderer) ReleaseGeometry(g *Geometry) { r.geometry[g.ID]++ }
func (r *fakeRenderer) ReleaseMaterial(m *Material) { r.material[m.ID]++ }
func (r *fakeRenderer) Close() error                { r.closes++; return r.closeErr }

type fakeScheduler struct {
	fn        func(time.Time)
	cancelled int
}

func (s *fakeScheduler) Schedule(fn func(time.Time)) func() {
	s.fn = fn
	return func() { s.cancelled++; s.fn = nil }
}

func mount(t *testing.T) (*Animator, *fakeRenderer, *fakeScheduler, *input.Bus) {
	t.Helper()
	r := newFakeRenderer()
	sched := &fakeScheduler{}
	bus := input.NewBus()
	a, err := Mount(fakeSurface{1280, 720}, r, sched, bus, Options{Rand: NewRand(7), GridVisible: true})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return a, r, sched, bus
}

func TestBuildPlacesObjectsInsideBounds(t *testing.T) {
	s := Build(800, 600, NewRand(1))
	if len(s.Objects) != ObjectCount {
		t.Fatalf("objects = %d, want %d", len(s.Objects), ObjectCount)
	}
	var sum mgl64.Vec3
	wire, outlines := 0, 0
	for i, o := range s.Objects {
		p := o.Base.Position
		if math.Abs(p[0]) > 35 || math.Abs(p[1]) > 12.5 || math.Abs(p[2]) > 20 {
			t.Fatalf("object %d at %v outside spawn box", i, p)
		}
		if sc := o.Base.Scale[0]; sc < 0.5 || sc >= 1.7 || o.Base.Scale[1] != sc || o.Base.Scale[2] != sc {
			t.Fatalf("object %d scale %v", i, o.Base.Scale)
		}
		for k := 0; k < 3; k++ {
			if r := o.Base.Rotation[k]; r < 0 || r >= 2*math.Pi {
				t.Fatalf("object %d rotation %v", i, o.Base.Rotation)
			}
		}
		if o.Outline == nil || o.Outline.Visible != o.Params.OutlineVisible {
			t.Fatalf("object %d outline not paired", i)
		}
		if o.Material.Wireframe {
			wire++
		}
		if o.Outline.Visible {
			outlines++
		}
		sum = sum.Add(p)
	}
	if !s.Centroid.ApproxEqual(sum.Mul(1.0 / ObjectCount)) {
		t.Fatalf("centroid = %v, want mean %v", s.Centroid, sum.Mul(1.0/ObjectCount))
	}
	if s.Camera.Target != s.Centroid || s.Camera.Position != (mgl64.Vec3{0, 0, 30}) {
		t.Fatalf("camera = %+v", s.Camera)
	}
	if math.Abs(s.Camera.Aspect-800.0/600.0) > 1e-12 {
		t.Fatalf("aspect = %v", s.Camera.Aspect)
	}
	if wire > ObjectCount/2 || outlines < ObjectCount/3 {
		t.Fatalf("unlikely draw: %d wireframes, %d visible outlines", wire, outlines)
	}
}

func TestBuildClonesMaterialsPerObject(t *testing.T) {
	s := Build(800, 600, NewRand(2))
	seen := map[*Material]bool{}
	for i := range s.Objects {
		m := s.Objects[i].Material
		if seen[m] {
			t.Fatalf("object %d shares a material", i)
		}
		seen[m] = true
	}
	a, b := s.Objects[0].Material, s.Objects[1].Material
	before := b.Opacity
	a.Opacity = 0.123
	if b.Opacity != before {
		t.Fatal("mutating one material changed another")
	}
	// 12 shapes + 3 grid line sets; 20 palette + 1 outline + 45 clones + 3 grid materials.
	if len(s.Geometries) != 15 || len(s.Materials) != 69 {
		t.Fatalf("resources = %d geometries, %d materials", len(s.Geometries), len(s.Materials))
	}
}

func TestMaterialCloneCopiesEveryField(t *testing.T) {
	m := &Material{
		ID: 7, Color: 0x4ecdc4, Emissive: mgl64.Vec3{0.1, 0.2, 0.3}, Metalness: 0.4,
		Roughness: 0.5, Opacity: 0.9, Transparent: true, Wireframe: true,
	}
	c := m.clone()
	if c == m || c.ID != 0 {
		t.Fatalf("clone = %p id %d", c, c.ID)
	}
	c.ID = m.ID
	if *c != *m {
		t.Fatalf("clone = %+v, want %+v", *c, *m)
	}
}

func TestBuildIsDeterministicForSeed(t *testing.T) {
	a := Build(640, 480, NewRand(99))
	b := Build(640, 480, NewRand(99))
	for i := range a.Objects {
		if a.Objects[i].Base != b.Objects[i].Base || a.Objects[i].Params != b.Objects[i].Params {
			t.Fatalf("object %d differs between builds with the same seed", i)
		}
		if a.Objects[i].Geometry.Kind != b.Objects[i].Geometry.Kind {
			t.Fatalf("object %d geometry differs", i)
		}
	}
}

func TestGridLayout(t *testing.T) {
	s := Build(100, 100, NewRand(3))
	if len(s.Grid) != 3 {
		t.Fatalf("grid sets = %d", len(s.Grid))
	}
	want := []int{80 * 4, 4, 17 * 4}
	for i, ls := range s.Grid {
		if ls.Geometry.Kind != Lines {
			t.Fatalf("set %d kind = %v", i, ls.Geometry.Kind)
		}
		if got := len(ls.Geometry.Lines); got != want[i] {
			t.Fatalf("set %d has %d vertices, want %d", i, got, want[i])
		}
	}
	for _, v := range s.Grid[1].Geometry.Lines {
		if v[1] != -15 {
			t.Fatalf("centre line at height %v", v[1])
		}
		if v[0] != 0 && v[2] != 0 {
			t.Fatalf("centre line vertex %v not on an axis", v)
		}
	}
	for _, v := range s.Grid[2].Geometry.Lines {
		if v[1] != -15.1 {
			t.Fatalf("sparse line at height %v", v[1])
		}
	}
}

func TestPoseIsRecomputedFromBase(t *testing.T) {
	a, r, _, _ := mount(t)
	s := a.Scene()
	for k := 0; k < 5; k++ {
		a.Step(2.5)
	}
	first := make([]Pose, len(s.Objects))
	for i, o := range s.Objects {
		first[i] = o.Pose
		want := o.Base.Position.Add(FloatOffset(o.Params, 2.5, i))
		if o.Pose.Position != want {
			t.Fatalf("object %d position %v, want %v", i, o.Pose.Position, want)
		}
	}
	for k := 0; k < 100; k++ {
		a.Step(2.5)
	}
	for i, o := range s.Objects {
		if o.Pose.Position != first[i].Position || o.Pose.Scale != first[i].Scale {
			t.Fatalf("object %d drifted after repeated frames at the same t", i)
		}
		wantRot := o.Base.Rotation.Add(o.Params.RotationSpeed.Mul(105))
		if !o.Pose.Rotation.ApproxEqual(wantRot) {
			t.Fatalf("object %d rotation %v, want %v", i, o.Pose.Rotation, wantRot)
		}
	}
	if r.renders != 105 {
		t.Fatalf("renders = %d, want 105", r.renders)
	}
}

func TestPulseAndOutlineFollowOwner(t *testing.T) {
	a, _, _, _ := mount(t)
	for _, tt := range []float64{0, 0.016, 1.7, 42} {
		a.Step(tt)
		for i, o := range a.Scene().Objects {
			pulse := Pulse(o.Params, tt, i)
			if o.Pose.Scale != o.Base.Scale.Mul(pulse) {
				t.Fatalf("t=%v object %d scale %v", tt, i, o.Pose.Scale)
			}
			op := o.Outline.Pose
			if op.Position != o.Pose.Position || op.Rotation != o.Pose.Rotation {
				t.Fatalf("t=%v outline %d pose stale", tt, i)
			}
			if op.Scale != o.Pose.Scale.Mul(OutlineScale) {
				t.Fatalf("t=%v outline %d scale %v, want %v", tt, i, op.Scale, o.Pose.Scale.Mul(OutlineScale))
			}
		}
	}
}

func TestOrbitDampingIsGeometric(t *testing.T) {
	o := NewOrbit(mgl64.Vec3{1, 2, 3}, OrbitRadius)
	o.Target = mgl64.Vec2{0.5, -1.2}
	initial := o.Target.Sub(o.Current)
	for k := 1; k <= 40; k++ {
		prev := o.Target.Sub(o.Current).Len()
		o.Step()
		remaining := o.Target.Sub(o.Current)
		want := initial.Mul(math.Pow(0.9, float64(k)))
		if !remaining.ApproxEqualThreshold(want, 1e-12) {
			t.Fatalf("step %d remaining %v, want %v", k, remaining, want)
		}
		if remaining.Len() >= prev {
			t.Fatalf("step %d did not approach target", k)
		}
	}
	if o.Current == o.Target {
		t.Fatal("damped orbit should approach, not reach, the target")
	}
}

func TestOrbitEyeStaysOnSphere(t *testing.T) {
	centre := mgl64.Vec3{1, -2, 3}
	o := NewOrbit(centre, OrbitRadius)
	if eye := o.Eye(); !eye.ApproxEqual(centre.Add(mgl64.Vec3{0, 0, 30})) {
		t.Fatalf("rest eye = %v", eye)
	}
	o.Current = mgl64.Vec2{0.4, 2.1}
	if d := o.Eye().Sub(centre).Len(); math.Abs(d-30) > 1e-9 {
		t.Fatalf("eye distance = %v", d)
	}
}

func TestPitchIsClamped(t *testing.T) {
	o := NewOrbit(mgl64.Vec3{}, OrbitRadius)
	p := NewPointer(o)
	p.Handle(input.Event{Kind: input.PointerDown, Button: input.ButtonPrimary, X: 0, Y: 0})
	y := 0.0
	for k := 0; k < 200; k++ {
		y += 97
		p.Handle(input.Event{Kind: input.PointerMove, X: float64(k), Y: y})
		if o.Target[0] > PitchLimit || o.Target[0] < -PitchLimit {
			t.Fatalf("pitch %v escaped the clamp", o.Target[0])
		}
	}
	if o.Target[0] != PitchLimit {
		t.Fatalf("pitch = %v, want %v", o.Target[0], PitchLimit)
	}
	for k := 0; k < 400; k++ {
		y -= 97
		p.Handle(input.Event{Kind: input.PointerMove, X: 0, Y: y})
	}
	if o.Target[0] != -PitchLimit {
		t.Fatalf("pitch = %v, want %v", o.Target[0], -PitchLimit)
	}
}

type recordDrag struct{ dx, dy []float64 }

func (r *recordDrag) Drag(dx, dy float64) { r.dx = append(r.dx, dx); r.dy = append(r.dy, dy) }

func TestPointerStateMachine(t *testing.T) {
	rec := &recordDrag{}
	p := NewPointer(rec)
	steps := []struct {
		e     input.Event
		state DragState
		drags int
	}{
		{input.Event{Kind: input.PointerMove, X: 5, Y: 5}, Idle, 0},
		{input.Event{Kind: input.PointerDown, Button: input.ButtonSecondary, X: 5, Y: 5}, Idle, 0},
		{input.Event{Kind: input.PointerDown, Button: input.ButtonPrimary, X: 10, Y: 20}, Dragging, 0},
		{input.Event{Kind: input.PointerMove, X: 13, Y: 16}, Dragging, 1},
		{input.Event{Kind: input.PointerUp, Button: input.ButtonSecondary}, Idle, 1},
		{input.Event{Kind: input.PointerMove, X: 50, Y: 50}, Idle, 1},
		{input.Event{Kind: input.TouchStart, Touches: 2, X: 0, Y: 0}, Idle, 1},
		{input.Event{Kind: input.TouchStart, Touches: 1, X: 100, Y: 100}, Dragging, 1},
		{input.Event{Kind: input.TouchMove, Touches: 2, X: 300, Y: 300}, Dragging, 1},
		{input.Event{Kind: input.TouchMove, Touches: 1, X: 90, Y: 110}, Dragging, 2},
		{input.Event{Kind: input.TouchEnd}, Idle, 2},
	}
	for i, s := range steps {
		p.Handle(s.e)
		if p.State() != s.state || len(rec.dx) != s.drags {
			t.Fatalf("step %d (%v): state %v drags %d, want %v %d", i, s.e.Kind, p.State(), len(rec.dx), s.state, s.drags)
		}
	}
	if rec.dx[0] != 3 || rec.dy[0] != -4 || rec.dx[1] != -10 || rec.dy[1] != 10 {
		t.Fatalf("deltas = %v %v", rec.dx, rec.dy)
	}
}

func TestInputDrivesCameraThroughBus(t *testing.T) {
	a, r, sched, bus := mount(t)
	bus.Publish(input.Event{Kind: input.PointerDown, Button: input.ButtonPrimary, X: 100, Y: 100})
	bus.Publish(input.Event{Kind: input.PointerMove, X: 200, Y: 100})
	if got := a.Orbit().Target[1]; math.Abs(got-0.3) > 1e-12 {
		t.Fatalf("yaw target = %v, want 0.3", got)
	}
	start := time.Unix(1000, 0)
	sched.fn(start)
	sched.fn(start.Add(16 * time.Millisecond))
	if a.Frame() != 2 || r.renders != 2 {
		t.Fatalf("frames = %d renders = %d", a.Frame(), r.renders)
	}
	if a.Scene().Camera.Target != a.Scene().Centroid {
		t.Fatal("camera not aimed at centroid")
	}
	if a.Scene().Camera.Position[0] <= a.Scene().Centroid[0] {
		t.Fatal("positive yaw should swing the camera to +X")
	}

	bus.Publish(input.Event{Kind: input.Resize, Width: 1000, Height: 500})
	if r.width != 1000 || r.height != 500 || a.Scene().Camera.Aspect != 2 {
		t.Fatalf("resize not applied: %dx%d aspect %v", r.width, r.height, a.Scene().Camera.Aspect)
	}
}

func TestCloseReleasesEverythingOnce(t *testing.T) {
	a, r, sched, bus := mount(t)
	a.Step(1)
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	s := a.Scene()
	for _, g := range s.Geometries {
		if r.geometry[g.ID] != 1 {
			t.Fatalf("geometry %d released %d times", g.ID, r.geometry[g.ID])
		}
	}
	for _, m := range s.Materials {
		if r.material[m.ID] != 1 {
			t.Fatalf("material %d released %d times", m.ID, r.material[m.ID])
		}
	}
	for i := range s.Objects {
		o := s.Objects[i]
		if r.geometry[o.Geometry.ID] != 1 || r.material[o.Material.ID] != 1 || r.material[o.Outline.Material.ID] != 1 {
			t.Fatalf("object %d resources not released exactly once", i)
		}
	}
	if r.closes != 1 || sched.cancelled != 1 || bus.Len() != 0 {
		t.Fatalf("closes=%d cancelled=%d subscribers=%d", r.closes, sched.cancelled, bus.Len())
	}
	renders := r.renders
	a.Step(2)
	if r.renders != renders {
		t.Fatal("Step after Close rendered")
	}
}

func TestCloseReportsRendererError(t *testing.T) {
	a, r, _, _ := mount(t)
	r.closeErr = errors.New("surface already removed")
	if err := a.Close(); err == nil {
		t.Fatal("expected renderer error")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestMountRejectsEmptySurface(t *testing.T) {
	_, err := Mount(fakeSurface{0, 600}, newFakeRenderer(), &fakeScheduler{}, input.NewBus(), Options{})
	if !errors.Is(err, ErrEmptySurface) {
		t.Fatalf("err = %v, want ErrEmptySurface", err)
	}
}
