// Package hero drives the decorative hero scene: procedurally placed shapes that float, spin
// and pulse over a floor grid while the camera orbits their centroid under pointer drags.
package hero

import (
	"errors"
	"fmt"
	"time"

	"showcase/internal/input"
	"showcase/internal/logger"
)

// Surface is the mount point a renderer draws into.
type Surface interface {
	Size() (width, height int)
}

// Renderer draws scenes and owns the GPU side of their geometries and materials.
type Renderer interface {
	Render(s *Scene)
	Resize(width, height int)
	ReleaseGeometry(g *Geometry)
	ReleaseMaterial(m *Material)
	// Close frees the renderer and detaches it from its surface. It must tolerate
	// a surface that is already gone.
	Close() error
}

// Scheduler runs a callback once per display frame until cancelled.
type Scheduler interface {
	Schedule(fn func(now time.Time)) (cancel func())
}

// ErrEmptySurface is returned by Mount for a surface with no area.
var ErrEmptySurface = errors.New("hero: surface has zero size")

// Options configures Mount.
type Options struct {
	// Rand seeds construction; nil uses a clock-seeded generator.
	Rand        Rand
	GridVisible bool
	Log         *logger.Logger
}

// Animator is one mounted hero scene: created by Mount, destroyed by Close.
type Animator struct {
	scene    *Scene
	renderer Renderer
	orbit    *Orbit
	pointer  *Pointer
	log      *logger.Logger

	cancelFrame func()
	unsubscribe func()
	start       time.Time
	frame       uint64
	closed      bool
}

// Mount builds a scene for surface, subscribes to src and schedules per-frame animation.
func Mount(surface Surface, r Renderer, sched Scheduler, src input.Source, opts Options) (*Animator, error) {
	w, h := surface.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w (%dx%d)", ErrEmptySurface, w, h)
	}
	rng := opts.Rand
	if rng == nil {
		rng = NewRand(uint64(time.Now().UnixNano()))
	}
	log := opts.Log
	if log == nil {
		log = logger.New("")
	}

	s := Build(w, h, rng)
	s.GridVisible = opts.GridVisible
	a := &Animator{
		scene:    s,
		renderer: r,
		orbit:    NewOrbit(s.Centroid, OrbitRadius),
		log:      log,
	}
	a.pointer = NewPointer(a.orbit)
	r.Resize(w, h)
	a.unsubscribe = src.Subscribe(a.handle)
	a.cancelFrame = sched.Schedule(a.tick)
	log.Infof("hero: mounted %d objects on %dx%d surface", len(s.Objects), w, h)
	return a, nil
}

func (a *Animator) handle(e input.Event) {
	if e.Kind == input.Resize {
		a.Resize(e.Width, e.Height)
		return
	}
	a.pointer.Handle(e)
}

func (a *Animator) tick(now time.Time) {
	if a.start.IsZero() {
		a.start = now
	}
	a.Step(now.Sub(a.start).Seconds())
}

// Step runs one frame at elapsed time t seconds: orbit damping, camera placement,
// object animation and rendering.
func (a *Animator) Step(t float64) {
	if a.closed {
		return
	}
	a.frame++
	a.orbit.Step()
	a.scene.Camera.Position = a.orbit.Eye()
	a.scene.Camera.Target = a.scene.Centroid
	Animate(a.scene, t, a.frame)
	a.renderer.Render(a.scene)
}

// Resize updates the camera aspect and the renderer size. Empty sizes are ignored.
func (a *Animator) Resize(width, height int) {
	if a.closed || width <= 0 || height <= 0 {
		return
	}
	a.scene.Camera.Aspect = aspect(width, height)
	a.renderer.Resize(width, height)
}

// Scene returns the animated scene.
func (a *Animator) Scene() *Scene {
	return a.scene
}

// Orbit returns the camera orbit.
func (a *Animator) Orbit() *Orbit {
	return a.orbit
}

// Pointer returns the drag controller.
func (a *Animator) Pointer() *Pointer {
	return a.pointer
}

// Frame returns the number of frames stepped.
func (a *Animator) Frame() uint64 {
	return a.frame
}

// Close stops the frame loop, unsubscribes input, releases every geometry and material
// once and closes the renderer. Later calls do nothing.
func (a *Animator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.cancelFrame()
	a.unsubscribe()
	for _, g := range a.scene.Geometries {
		a.renderer.ReleaseGeometry(g)
	}
	for _, m := range a.scene.Materials {
		a.renderer.ReleaseMaterial(m)
	}
	err := a.renderer.Close()
	if err != nil {
		a.log.Errorf("hero: close renderer: %v", err)
	}
	a.log.Infof("hero: released %d geometries, %d materials", len(a.scene.Geometries), len(a.scene.Materials))
	return err
}
