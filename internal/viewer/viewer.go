// Package viewer shows one external model at a time on a lit stage with an orbit camera.
// Loading a new model replaces the previous one; lights and grid stay.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"showcase/internal/hero"
	"showcase/internal/input"
	"showcase/internal/logger"
	"showcase/internal/model"
)

const (
	// DefaultBackground is used until a catalog item sets one.
	DefaultBackground = 0xf5f5f0
	fov               = 75.0
	gridSize          = 10.0
	gridDivisions     = 10
)

// Stage camera rest position, looking at the origin.
var restEye = mgl64.Vec3{0, 1, 3}

// NodeKind classifies scene nodes. Only Mesh and Group nodes are replaced by Load.
type NodeKind int

const (
	LightNode NodeKind = iota
	GridNode
	MeshNode
	GroupNode
)

func (k NodeKind) String() string {
	switch k {
	case LightNode:
		return "light"
	case GridNode:
		return "grid"
	case MeshNode:
		return "mesh"
	case GroupNode:
		return "group"
	}
	return "unknown"
}

// Node is one top-level scene entry.
type Node struct {
	ID    int
	Kind  NodeKind
	Name  string
	Light *hero.Light
	Grid  *hero.LineSet
	Group *model.Group
}

// Scene is everything the viewer draws.
type Scene struct {
	Background  uint32
	Camera      hero.Camera
	GridVisible bool
	Nodes       []*Node
}

// Count returns the number of nodes of the given kinds.
func (s *Scene) Count(kinds ...NodeKind) int {
	n := 0
	for _, node := range s.Nodes {
		for _, k := range kinds {
			if node.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

// Fetcher makes a model URL available as a local file.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (path string, err error)
}

// Renderer draws viewer scenes and owns the GPU copies of model nodes.
type Renderer interface {
	Render(s *Scene)
	Resize(width, height int)
	// Release frees whatever the renderer uploaded for n.
	Release(n *Node)
	Close() error
}

// ErrClosed is returned by Load after Close.
var ErrClosed = errors.New("viewer: closed")

// Options configures New.
type Options struct {
	Background  uint32
	GridVisible bool
	Log         *logger.Logger
}

type result struct {
	gen   uint64
	url   string
	group *model.Group
	err   error
}

// Viewer is one mounted model stage. All methods run on the frame thread; fetching and
// decoding happen on background goroutines whose results are applied by Update.
type Viewer struct {
	scene    *Scene
	renderer Renderer
	fetch    Fetcher
	decoders *model.Registry
	orbit    *hero.Orbit
	pointer  *hero.Pointer
	log      *logger.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	results chan result
	gen     uint64
	pending int
	nextID  int
	url     string
	lastErr error

	cancelFrame func()
	unsubscribe func()
	closed      bool
}

// New mounts a viewer on surface with a hemisphere light and a floor grid.
func New(surface hero.Surface, r Renderer, sched hero.Scheduler, src input.Source, fetch Fetcher, decoders *model.Registry, opts Options) (*Viewer, error) {
	w, h := surface.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w (%dx%d)", hero.ErrEmptySurface, w, h)
	}
	log := opts.Log
	if log == nil {
		log = logger.New("")
	}
	bg := opts.Background
	if bg == 0 {
		bg = DefaultBackground
	}
	ctx, cancel := context.WithCancel(context.Background())
	v := &Viewer{
		scene: &Scene{
			Background:  bg,
			GridVisible: opts.GridVisible,
			Camera: hero.Camera{
				Position: restEye,
				Up:       mgl64.Vec3{0, 1, 0},
				Fov:      fov,
				Aspect:   float64(w) / float64(h),
				Near:     0.1,
				Far:      1000,
			},
		},
		renderer: r,
		fetch:    fetch,
		decoders: decoders,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		results:  make(chan result, 4),
	}
	v.orbit = hero.NewOrbit(mgl64.Vec3{}, restEye.Len())
	v.orbit.Current[0] = math.Asin(restEye[1] / restEye.Len())
	v.orbit.Target = v.orbit.Current
	v.pointer = hero.NewPointer(v.orbit)

	v.add(&Node{Kind: LightNode, Name: "hemisphere", Light: &hero.Light{
		Kind: hero.HemisphereLight, Color: 0xffffff, GroundColor: 0x444444, Intensity: 1.2,
	}})
	v.add(&Node{Kind: GridNode, Name: "grid", Grid: &hero.LineSet{
		Geometry: &hero.Geometry{Kind: hero.Lines, Lines: gridLines(gridSize, gridDivisions)},
		Material: &hero.Material{Color: 0x888888, Opacity: 0.4, Transparent: true, Unlit: true},
	}})

	r.Resize(w, h)
	v.unsubscribe = src.Subscribe(v.handle)
	v.cancelFrame = sched.Schedule(v.tick)
	return v, nil
}

func gridLines(size float64, divisions int) []mgl64.Vec3 {
	half := size / 2
	step := size / float64(divisions)
	var out []mgl64.Vec3
	for i := 0; i <= divisions; i++ {
		p := -half + float64(i)*step
		out = append(out,
			mgl64.Vec3{p, 0, -half}, mgl64.Vec3{p, 0, half},
			mgl64.Vec3{-half, 0, p}, mgl64.Vec3{half, 0, p},
		)
	}
	return out
}

func (v *Viewer) add(n *Node) {
	v.nextID++
	n.ID = v.nextID
	v.scene.Nodes = append(v.scene.Nodes, n)
}

func (v *Viewer) handle(e input.Event) {
	if e.Kind == input.Resize {
		v.Resize(e.Width, e.Height)
		return
	}
	v.pointer.Handle(e)
}

func (v *Viewer) tick(time.Time) {
	v.Step()
}

// Step applies finished loads, moves the camera and renders one frame.
func (v *Viewer) Step() {
	if v.closed {
		return
	}
	v.Update()
	v.orbit.Step()
	v.scene.Camera.Position = v.orbit.Eye()
	v.scene.Camera.Target = v.orbit.Centre
	v.renderer.Render(v.scene)
}

// Load replaces the current model with the one at url. An unsupported extension is logged
// and leaves the scene untouched. Otherwise existing model nodes are removed at once and the
// new model is added by a later Update when fetching and decoding finish.
func (v *Viewer) Load(url string) error {
	if v.closed {
		return ErrClosed
	}
	dec, err := v.decoders.For(url)
	if err != nil {
		v.log.Errorf("viewer: load %s: %v", url, err)
		v.lastErr = err
		return err
	}
	v.clear()
	v.gen++
	v.pending++
	v.url = url
	v.lastErr = nil
	gen := v.gen
	go func() {
		r := result{gen: gen, url: url}
		path, err := v.fetch.Fetch(v.ctx, url)
		if err == nil {
			r.group, err = dec.Decode(path)
		}
		r.err = err
		select {
		case v.results <- r:
		case <-v.ctx.Done():
		}
	}()
	return nil
}

// clear removes every mesh and group node and releases their GPU data.
func (v *Viewer) clear() {
	kept := v.scene.Nodes[:0]
	for _, n := range v.scene.Nodes {
		if n.Kind == MeshNode || n.Kind == GroupNode {
			v.renderer.Release(n)
			continue
		}
		kept = append(kept, n)
	}
	clear(v.scene.Nodes[len(kept):])
	v.scene.Nodes = kept
}

// Update applies every load that has finished since the last call without blocking.
func (v *Viewer) Update() {
	for v.pending > 0 {
		select {
		case r := <-v.results:
			v.apply(r)
		default:
			return
		}
	}
}

// Wait blocks until every in-flight load has been applied or ctx ends.
func (v *Viewer) Wait(ctx context.Context) error {
	for v.pending > 0 && !v.closed {
		select {
		case r := <-v.results:
			v.apply(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (v *Viewer) apply(r result) {
	v.pending--
	if r.gen != v.gen {
		v.log.Infof("viewer: dropped stale load of %s", r.url)
		return
	}
	if r.err != nil {
		v.log.Errorf("viewer: load %s: %v", r.url, r.err)
		v.lastErr = r.err
		return
	}
	kind := GroupNode
	if r.group.Format == "stl" && len(r.group.Meshes) == 1 {
		kind = MeshNode
	}
	v.add(&Node{Kind: kind, Name: r.group.Name, Group: r.group})
	v.log.Infof("viewer: loaded %s (%d meshes, %d triangles)", r.url, len(r.group.Meshes), r.group.TriangleCount())
}

// Pending returns the number of loads not yet applied.
func (v *Viewer) Pending() int {
	return v.pending
}

// URL returns the most recently requested model URL.
func (v *Viewer) URL() string {
	return v.url
}

// Err returns the error of the most recent load, or nil.
func (v *Viewer) Err() error {
	return v.lastErr
}

// Model returns the decoded model currently in the scene, or nil.
func (v *Viewer) Model() *model.Group {
	for _, n := range v.scene.Nodes {
		if n.Kind == MeshNode || n.Kind == GroupNode {
			return n.Group
		}
	}
	return nil
}

// SetBackground sets the clear colour (0xRRGGBB).
func (v *Viewer) SetBackground(c uint32) {
	v.scene.Background = c
}

// SetGridVisible shows or hides the grid node.
func (v *Viewer) SetGridVisible(visible bool) {
	v.scene.GridVisible = visible
}

// Resize updates the camera aspect and the renderer size. Empty sizes are ignored.
func (v *Viewer) Resize(width, height int) {
	if v.closed || width <= 0 || height <= 0 {
		return
	}
	v.scene.Camera.Aspect = float64(width) / float64(height)
	v.renderer.Resize(width, height)
}

// Scene returns the viewer scene.
func (v *Viewer) Scene() *Scene {
	return v.scene
}

// Orbit returns the camera orbit.
func (v *Viewer) Orbit() *hero.Orbit {
	return v.orbit
}

// Close cancels in-flight loads, stops the frame loop, unsubscribes input, releases model
// nodes and closes the renderer. Later calls do nothing.
func (v *Viewer) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	v.cancel()
	v.cancelFrame()
	v.unsubscribe()
	v.clear()
	v.pending = 0
	err := v.renderer.Close()
	if err != nil {
		v.log.Errorf("viewer: close renderer: %v", err)
	}
	return err
}
