package model

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hschendel/stl"

	"showcase/internal/geom"
)

// decodeSTL reads ASCII or binary STL. Facet normals from the file are used when non-zero.
func decodeSTL(path string) (*Group, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stl: read %s: %w", path, err)
	}
	if len(solid.Triangles) == 0 {
		return nil, fmt.Errorf("stl: %s has no facets", path)
	}
	name := solid.Name
	if name == "" {
		name = filepath.Base(path)
	}
	m := geom.Mesh{Name: name, Color: DefaultColor}
	m.Positions = make([]mgl32.Vec3, 0, 3*len(solid.Triangles))
	m.Normals = make([]mgl32.Vec3, 0, 3*len(solid.Triangles))
	for _, t := range solid.Triangles {
		a := mgl32.Vec3(t.Vertices[0])
		b := mgl32.Vec3(t.Vertices[1])
		c := mgl32.Vec3(t.Vertices[2])
		n := mgl32.Vec3(t.Normal)
		if n.Len() == 0 {
			n = b.Sub(a).Cross(c.Sub(a))
		}
		n = safeNormal(n)
		m.Positions = append(m.Positions, a, b, c)
		m.Normals = append(m.Normals, n, n, n)
	}
	return &Group{Name: name, Format: "stl", Meshes: []geom.Mesh{m}}, nil
}
