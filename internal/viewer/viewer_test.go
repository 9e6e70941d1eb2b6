package viewer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"showcase/internal/input"
	"showcase/internal/logger"
	"showcase/internal/model"
)

const cubeOBJ = `o cube
v -1 -1 -1
v 1 -1 -1
v 1 1 -1
v -1 1 -1
f 1 2 3 4
`

const triangleSTL = `solid tri
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
endsolid tri
`

type surface struct{}

func (surface) Size() (int, int) { return 640, 480 }

type fakeRenderer struct {
	renders  int
	released []int
	closes   int
	w, h     int
}

func (r *fakeRenderer) Render(*Scene)   { r.renders++ }
func (r *fakeRenderer) Resize(w, h int) { r.w, r.h = w, h }
func (r *fakeRenderer) Release(n *Node) { r.released = append(r.released, n.ID) }
func (r *fakeRenderer) Close() error    { r.closes++; return nil }

type scheduler struct{ cancelled bool }

func (s *scheduler) Schedule(func(time.Time)) func() { return func() { s.cancelled = true } }

// fetcher serves files from a map. URLs with a gate block until the gate closes or ctx ends;
// aborted receives the URL of every fetch ended by cancellation.
type fetcher struct {
	files   map[string]string
	gates   map[string]chan struct{}
	aborted chan string
}

func (f *fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if g, ok := f.gates[url]; ok {
		select {
		case <-g:
		case <-ctx.Done():
			f.aborted <- url
			return "", ctx.Err()
		}
	}
	p, ok := f.files[url]
	if !ok {
		return "", fmt.Errorf("fetch %s: not found", url)
	}
	return p, nil
}

func setup(t *testing.T) (*Viewer, *fakeRenderer, *fetcher, *logger.Logger) {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	f := &fetcher{
		files: map[string]string{
			"/assets/3D/cube.obj":  write("cube.obj", cubeOBJ),
			"/assets/3D/tri.stl":   write("tri.stl", triangleSTL),
			"/assets/3D/slow.obj":  write("slow.obj", cubeOBJ),
			"/assets/3D/junk.obj":  write("junk.obj", "f 9 9 9\n"),
			"/assets/3D/other.obj": write("other.obj", cubeOBJ),
		},
		gates:   map[string]chan struct{}{"/assets/3D/slow.obj": make(chan struct{})},
		aborted: make(chan string, 1),
	}
	r := &fakeRenderer{}
	log := logger.New("")
	v, err := New(surface{}, r, &scheduler{}, input.NewBus(), f, model.NewRegistry(), Options{GridVisible: true, Log: log})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v, r, f, log
}

func wait(t *testing.T, v *Viewer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := v.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func hasLine(log *logger.Logger, sub string) bool {
	for _, l := range log.Lines() {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func TestSecondLoadReplacesModelNodesOnly(t *testing.T) {
	v, r, _, _ := setup(t)
	s := v.Scene()
	lights, grids := s.Count(LightNode), s.Count(GridNode)
	if lights != 1 || grids != 1 {
		t.Fatalf("stage has %d lights, %d grids", lights, grids)
	}

	if err := v.Load("/assets/3D/cube.obj"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	wait(t, v)
	if got := s.Count(GroupNode); got != 1 {
		t.Fatalf("groups after first load = %d", got)
	}
	if m := v.Model(); m == nil || m.TriangleCount() != 2 || v.Err() != nil {
		t.Fatalf("Model = %+v, Err = %v", m, v.Err())
	}
	first := s.Nodes[len(s.Nodes)-1]

	if err := v.Load("/assets/3D/tri.stl"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	wait(t, v)
	if s.Count(GroupNode) != 0 || s.Count(MeshNode) != 1 {
		t.Fatalf("after second load: %d groups, %d meshes", s.Count(GroupNode), s.Count(MeshNode))
	}
	if s.Count(LightNode) != lights || s.Count(GridNode) != grids {
		t.Fatal("lights or grid changed")
	}
	if got := r.released; len(got) != 1 || got[0] != first.ID {
		t.Fatalf("released %v, want [%d]", got, first.ID)
	}
	for _, n := range s.Nodes {
		if n == first {
			t.Fatal("first model still in scene")
		}
	}
}

func TestUnsupportedExtensionLeavesSceneUnchanged(t *testing.T) {
	v, r, _, log := setup(t)
	if err := v.Load("/assets/3D/cube.obj"); err != nil {
		t.Fatal(err)
	}
	wait(t, v)
	before := len(v.Scene().Nodes)

	err := v.Load("/assets/3D/model.xyz")
	if !errors.Is(err, model.ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if got := len(v.Scene().Nodes); got != before {
		t.Fatalf("nodes = %d, want %d", got, before)
	}
	if len(r.released) != 0 || v.Pending() != 0 {
		t.Fatalf("released %v pending %d", r.released, v.Pending())
	}
	if !hasLine(log, "ERROR viewer: load /assets/3D/model.xyz: unsupported format") {
		t.Fatalf("log = %v", log.Lines())
	}
	if v.URL() != "/assets/3D/cube.obj" {
		t.Fatalf("url = %q", v.URL())
	}
}

func TestLoadFailuresAreLogged(t *testing.T) {
	cases := []struct {
		url string
		log string
	}{
		{"/assets/3D/missing.glb", "not found"},
		{"/assets/3D/junk.obj", "ERROR viewer: load /assets/3D/junk.obj"},
	}
	for _, c := range cases {
		t.Run(c.url, func(t *testing.T) {
			v, _, _, log := setup(t)
			if err := v.Load(c.url); err != nil {
				t.Fatalf("Load: %v", err)
			}
			wait(t, v)
			if n := v.Scene().Count(MeshNode, GroupNode); n != 0 {
				t.Fatalf("models = %d", n)
			}
			if !hasLine(log, c.log) {
				t.Fatalf("log = %v", log.Lines())
			}
		})
	}
}

func TestStaleLoadIsDropped(t *testing.T) {
	v, _, f, log := setup(t)
	if err := v.Load("/assets/3D/slow.obj"); err != nil {
		t.Fatal(err)
	}
	if err := v.Load("/assets/3D/other.obj"); err != nil {
		t.Fatal(err)
	}
	if v.Pending() != 2 {
		t.Fatalf("pending = %d", v.Pending())
	}
	close(f.gates["/assets/3D/slow.obj"])
	wait(t, v)
	if got := v.Scene().Count(GroupNode); got != 1 {
		t.Fatalf("groups = %d, want 1", got)
	}
	if !hasLine(log, "dropped stale load of /assets/3D/slow.obj") {
		t.Fatalf("log = %v", log.Lines())
	}
}

func TestCloseCancelsInFlightLoads(t *testing.T) {
	v, r, f, _ := setup(t)
	if err := v.Load("/assets/3D/slow.obj"); err != nil {
		t.Fatal(err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case url := <-f.aborted:
		if url != "/assets/3D/slow.obj" {
			t.Fatalf("aborted %q", url)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("fetch was not cancelled")
	}
	if err := v.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if !errors.Is(v.Load("/assets/3D/cube.obj"), ErrClosed) {
		t.Fatal("Load after Close should fail")
	}
	if r.closes != 1 {
		t.Fatalf("renderer closed %d times", r.closes)
	}
	renders := r.renders
	v.Step()
	if r.renders != renders {
		t.Fatal("Step after Close rendered")
	}
}

func TestStepAndResize(t *testing.T) {
	v, r, _, _ := setup(t)
	if r.w != 640 || r.h != 480 {
		t.Fatalf("initial size %dx%d", r.w, r.h)
	}
	v.Step()
	cam := v.Scene().Camera
	if !cam.Position.ApproxEqual(restEye) {
		t.Fatalf("camera at %v, want %v", cam.Position, restEye)
	}
	v.Resize(1000, 500)
	if v.Scene().Camera.Aspect != 2 || r.w != 1000 {
		t.Fatalf("resize not applied")
	}
	v.SetBackground(0xb3b3ff)
	if v.Scene().Background != 0xb3b3ff || r.renders != 1 {
		t.Fatalf("background %x renders %d", v.Scene().Background, r.renders)
	}
}
