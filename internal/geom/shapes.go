package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var phi = (1 + math32.Sqrt(5)) / 2

// Tetrahedron returns a flat-shaded tetrahedron inscribed in a sphere of the given radius.
func Tetrahedron(radius float32) Mesh {
	verts := []mgl32.Vec3{{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1}}
	faces := []uint32{2, 1, 0, 0, 3, 2, 1, 3, 0, 2, 3, 1}
	return polyhedron("tetrahedron", verts, faces, radius)
}

// Octahedron returns a flat-shaded octahedron inscribed in a sphere of the given radius.
func Octahedron(radius float32) Mesh {
	verts := []mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	faces := []uint32{0, 2, 4, 0, 4, 3, 0, 3, 5, 0, 5, 2, 1, 2, 5, 1, 5, 3, 1, 3, 4, 1, 4, 2}
	return polyhedron("octahedron", verts, faces, radius)
}

// Icosahedron returns a flat-shaded icosahedron inscribed in a sphere of the given radius.
func Icosahedron(radius float32) Mesh {
	t := phi
	verts := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	faces := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	return polyhedron("icosahedron", verts, faces, radius)
}

// Dodecahedron returns a flat-shaded dodecahedron inscribed in a sphere of the given radius.
func Dodecahedron(radius float32) Mesh {
	t := phi
	r := 1 / t
	verts := []mgl32.Vec3{
		{-1, -1, -1}, {-1, -1, 1}, {-1, 1, -1}, {-1, 1, 1},
		{1, -1, -1}, {1, -1, 1}, {1, 1, -1}, {1, 1, 1},
		{0, -r, -t}, {0, -r, t}, {0, r, -t}, {0, r, t},
		{-r, -t, 0}, {-r, t, 0}, {r, -t, 0}, {r, t, 0},
		{-t, 0, -r}, {t, 0, -r}, {-t, 0, r}, {t, 0, r},
	}
	faces := []uint32{
		3, 11, 7, 3, 7, 15, 3, 15, 13,
		7, 19, 17, 7, 17, 6, 7, 6, 15,
		17, 4, 8, 17, 8, 10, 17, 10, 6,
		8, 0, 16, 8, 16, 2, 8, 2, 10,
		0, 12, 1, 0, 1, 18, 0, 18, 16,
		6, 10, 2, 6, 2, 13, 6, 13, 15,
		2, 16, 18, 2, 18, 3, 2, 3, 13,
		18, 1, 9, 18, 9, 11, 18, 11, 3,
		4, 14, 12, 4, 12, 0, 4, 0, 8,
		11, 9, 5, 11, 5, 19, 11, 19, 7,
		19, 5, 14, 19, 14, 4, 19, 4, 17,
		1, 12, 14, 1, 14, 5, 1, 5, 9,
	}
	return polyhedron("dodecahedron", verts, faces, radius)
}

// polyhedron projects verts onto the sphere and emits one flat triangle per face, wound outward.
func polyhedron(name string, verts []mgl32.Vec3, faces []uint32, radius float32) Mesh {
	m := Mesh{Name: name}
	for i := 0; i+2 < len(faces); i += 3 {
		a := verts[faces[i]].Normalize().Mul(radius)
		b := verts[faces[i+1]].Normalize().Mul(radius)
		c := verts[faces[i+2]].Normalize().Mul(radius)
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Dot(a.Add(b).Add(c)) < 0 {
			b, c = c, b
			n = n.Mul(-1)
		}
		n = safeNormalize(n)
		m.Positions = append(m.Positions, a, b, c)
		m.Normals = append(m.Normals, n, n, n)
	}
	return m
}

// Capsule returns a Y-aligned capsule: a cylinder of the given length capped by two hemispheres.
func Capsule(radius, length float32, capSegments, radialSegments int) Mesh {
	capSegments = max(capSegments, 1)
	radialSegments = max(radialSegments, 3)

	type profilePoint struct{ r, y, nr, ny float32 }
	profile := make([]profilePoint, 0, 2*(capSegments+1))
	half := length / 2
	for i := 0; i <= capSegments; i++ {
		a := -math32.Pi/2 + math32.Pi/2*float32(i)/float32(capSegments)
		s, c := math32.Sincos(a)
		profile = append(profile, profilePoint{radius * c, -half + radius*s, c, s})
	}
	for i := 0; i <= capSegments; i++ {
		a := math32.Pi / 2 * float32(i) / float32(capSegments)
		s, c := math32.Sincos(a)
		profile = append(profile, profilePoint{radius * c, half + radius*s, c, s})
	}

	m := Mesh{Name: "capsule"}
	cols := radialSegments + 1
	for _, p := range profile {
		for j := 0; j <= radialSegments; j++ {
			theta := 2 * math32.Pi * float32(j) / float32(radialSegments)
			s, c := math32.Sincos(theta)
			m.Positions = append(m.Positions, mgl32.Vec3{p.r * c, p.y, p.r * s})
			m.Normals = append(m.Normals, safeNormalize(mgl32.Vec3{p.nr * c, p.ny, p.nr * s}))
		}
	}
	for i := 0; i+1 < len(profile); i++ {
		for j := 0; j < radialSegments; j++ {
			a := uint32(i*cols + j)
			b := a + uint32(cols)
			m.Indices = append(m.Indices, a, b, a+1, b, b+1, a+1)
		}
	}
	return m
}

// Ring returns a flat annulus in the XY plane, visible from both sides.
func Ring(inner, outer float32, segments int) Mesh {
	segments = max(segments, 3)
	m := Mesh{Name: "ring"}
	for side, nz := range []float32{1, -1} {
		base := uint32(len(m.Positions))
		for j := 0; j <= segments; j++ {
			theta := 2 * math32.Pi * float32(j) / float32(segments)
			s, c := math32.Sincos(theta)
			m.Positions = append(m.Positions, mgl32.Vec3{inner * c, inner * s, 0}, mgl32.Vec3{outer * c, outer * s, 0})
			m.Normals = append(m.Normals, mgl32.Vec3{0, 0, nz}, mgl32.Vec3{0, 0, nz})
		}
		for j := 0; j < segments; j++ {
			in0, out0 := base+uint32(2*j), base+uint32(2*j+1)
			in1, out1 := in0+2, out0+2
			if side == 0 {
				m.Indices = append(m.Indices, in0, out0, out1, in0, out1, in1)
			} else {
				m.Indices = append(m.Indices, in0, out1, out0, in0, in1, out1)
			}
		}
	}
	return m
}
