package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"showcase/internal/hero"
	"showcase/internal/primitives"
)

var _ hero.Renderer = (*Hero)(nil)

// Hero renders hero scenes. Meshes are created on first draw and released per geometry.
type Hero struct {
	reg           *primitives.Registry
	width, height int
}

// NewHero returns a hero renderer with its own mesh registry.
func NewHero() *Hero {
	return &Hero{reg: primitives.NewRegistry()}
}

// Render clears to the scene background and draws grid, outlines and objects.
// Outlines go first with depth writes off so their owners always paint over them.
func (h *Hero) Render(s *hero.Scene) {
	rl.ClearBackground(Color(s.Background, 1))
	h.reg.SetLighting(Lighting(s.Lights, s.Camera))
	rl.BeginMode3D(Camera(s.Camera))
	if s.GridVisible {
		for i := range s.Grid {
			drawLines(&s.Grid[i])
		}
	}

	rl.DisableDepthMask()
	for i := range s.Objects {
		o := &s.Objects[i]
		if o.Outline != nil && o.Outline.Visible {
			h.draw(o.Geometry, o.Outline.Material, o.Outline.Pose)
		}
	}
	rl.EnableDepthMask()

	for i := range s.Objects {
		o := &s.Objects[i]
		h.draw(o.Geometry, o.Material, o.Pose)
	}
	rl.EndMode3D()
}

func (h *Hero) draw(g *hero.Geometry, m *hero.Material, p hero.Pose) {
	key := geometryKey(g)
	h.reg.EnsureShape(key, g.Kind)
	h.reg.Draw(key, h.reg.Surface(m), Transform(p))
}

// Resize records the drawing size; raylib tracks the framebuffer itself.
func (h *Hero) Resize(width, height int) {
	h.width, h.height = width, height
}

// ReleaseGeometry unloads the mesh of g if it was ever drawn.
func (h *Hero) ReleaseGeometry(g *hero.Geometry) {
	h.reg.Release(geometryKey(g))
}

// ReleaseMaterial drops the cached shading state of m.
func (h *Hero) ReleaseMaterial(m *hero.Material) {
	h.reg.ReleaseSurface(m.ID)
}

// Close unloads anything still cached and the shared shader.
func (h *Hero) Close() error {
	h.reg.Close()
	return nil
}
