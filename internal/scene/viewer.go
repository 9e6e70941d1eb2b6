package scene

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"showcase/internal/hero"
	"showcase/internal/primitives"
	"showcase/internal/viewer"
)

// modelRoughness is the shading of decoded meshes, which carry only a colour.
const modelRoughness = 0.5

var _ viewer.Renderer = (*Viewer)(nil)

// Viewer renders viewer scenes. Model meshes are uploaded on first draw.
type Viewer struct {
	reg           *primitives.Registry
	width, height int
}

// NewViewer returns a viewer renderer with its own mesh registry.
func NewViewer() *Viewer {
	return &Viewer{reg: primitives.NewRegistry()}
}

// Render clears to the scene background and draws the grid and model nodes.
func (v *Viewer) Render(s *viewer.Scene) {
	rl.ClearBackground(Color(s.Background, 1))
	var lights []hero.Light
	for _, n := range s.Nodes {
		if n.Kind == viewer.LightNode {
			lights = append(lights, *n.Light)
		}
	}
	v.reg.SetLighting(Lighting(lights, s.Camera))
	rl.BeginMode3D(Camera(s.Camera))
	for _, n := range s.Nodes {
		switch n.Kind {
		case viewer.GridNode:
			if s.GridVisible {
				drawLines(n.Grid)
			}
		case viewer.MeshNode, viewer.GroupNode:
			v.drawGroup(n)
		}
	}
	rl.EndMode3D()
}

func (v *Viewer) drawGroup(n *viewer.Node) {
	for i := range n.Group.Meshes {
		m := &n.Group.Meshes[i]
		key := meshKey(n, i)
		if !v.reg.Has(key) {
			v.reg.Upload(key, *m)
		}
		s := primitives.Surface{
			Color:     rl.NewColor(m.Color.R, m.Color.G, m.Color.B, m.Color.A),
			Roughness: modelRoughness,
		}
		v.reg.Draw(key, s, rl.MatrixIdentity())
	}
}

func meshKey(n *viewer.Node, i int) string {
	return fmt.Sprintf("model/%d/%d", n.ID, i)
}

// Resize records the drawing size; raylib tracks the framebuffer itself.
func (v *Viewer) Resize(width, height int) {
	v.width, v.height = width, height
}

// Release unloads the meshes uploaded for a model node.
func (v *Viewer) Release(n *viewer.Node) {
	if n.Group == nil {
		return
	}
	for i := range n.Group.Meshes {
		v.reg.Release(meshKey(n, i))
	}
}

// Close unloads anything still cached and the shared shader.
func (v *Viewer) Close() error {
	v.reg.Close()
	return nil
}
