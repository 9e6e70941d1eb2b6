// Package geom holds CPU-side triangle meshes shared by the procedural shapes and the model decoders.
// Nothing here touches the GPU, so meshes can be built off the frame thread.
package geom

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed (or, with no Indices, sequential) triangle list.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
	Color     color.RGBA
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c uint32) {
	if len(m.Indices) > 0 {
		return m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
	}
	return uint32(3 * i), uint32(3*i + 1), uint32(3*i + 2)
}

// ComputeNormals replaces Normals with area-weighted vertex normals.
func (m *Mesh) ComputeNormals() {
	normals := make([]mgl32.Vec3, len(m.Positions))
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		pa, pb, pc := m.Positions[a], m.Positions[b], m.Positions[c]
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i, n := range normals {
		normals[i] = safeNormalize(n)
	}
	m.Normals = normals
}

// Bounds returns the axis-aligned bounds of the mesh. ok is false for an empty mesh.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	if len(m.Positions) == 0 {
		return lo, hi, false
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi, true
}

// Expand returns the mesh as a sequential triangle list with one position and normal per corner.
// Normals are computed when the mesh has none.
func (m *Mesh) Expand() (positions, normals []mgl32.Vec3) {
	if len(m.Normals) != len(m.Positions) {
		m.ComputeNormals()
	}
	n := m.TriangleCount() * 3
	positions = make([]mgl32.Vec3, 0, n)
	normals = make([]mgl32.Vec3, 0, n)
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		positions = append(positions, m.Positions[a], m.Positions[b], m.Positions[c])
		normals = append(normals, m.Normals[a], m.Normals[b], m.Normals[c])
	}
	return positions, normals
}

// Merge returns the bounds over several meshes.
func Merge(meshes []Mesh) (lo, hi mgl32.Vec3, ok bool) {
	for i := range meshes {
		l, h, mok := meshes[i].Bounds()
		if !mok {
			continue
		}
		if !ok {
			lo, hi, ok = l, h, true
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], l[k])
			hi[k] = max(hi[k], h[k])
		}
	}
	return lo, hi, ok
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Normalize()
}

// Batch is a slice of a non-indexed triangle list.
type Batch struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
}

// Batches expands m and cuts the result into batches of at most maxVerts corners, never
// splitting a triangle. maxVerts below 3 yields a single batch.
func (m *Mesh) Batches(maxVerts int) []Batch {
	pos, nrm := m.Expand()
	if len(pos) == 0 {
		return nil
	}
	if maxVerts < 3 {
		return []Batch{{Positions: pos, Normals: nrm}}
	}
	step := maxVerts - maxVerts%3
	var out []Batch
	for start := 0; start < len(pos); start += step {
		end := min(start+step, len(pos))
		out = append(out, Batch{Positions: pos[start:end], Normals: nrm[start:end]})
	}
	return out
}
