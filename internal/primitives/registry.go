// Package primitives owns the GPU meshes of the hero shapes and loaded models and draws them
// with a shared lit shader.
package primitives

import (
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"showcase/internal/geom"
	"showcase/internal/hero"
)

// maxBatchVertices keeps each uploaded batch addressable by raylib's 16-bit vertex counters.
const maxBatchVertices = 65535

// entry is one cached drawable: one or more GPU meshes plus a model-space offset that centres them.
type entry struct {
	meshes []rl.Mesh
	offset [3]float32
}

// Registry maps keys to uploaded meshes. Meshes are created on first use so that GPU resources
// are allocated after the window/OpenGL context exists.
type Registry struct {
	defs    map[hero.GeometryKind]Def
	cache   map[string]entry
	mtl     rl.Material
	mtlOK   bool
	locs    map[string]int32
	light   Lighting
	surface map[int]Surface
}

// NewRegistry returns an empty registry using the built-in shape table.
func NewRegistry() *Registry {
	return &Registry{
		defs:    DefaultDefs(),
		cache:   make(map[string]entry),
		locs:    make(map[string]int32),
		surface: make(map[int]Surface),
	}
}

// Has reports whether key has been uploaded.
func (r *Registry) Has(key string) bool {
	_, ok := r.cache[key]
	return ok
}

// EnsureShape generates the mesh for a decorative shape under key if not yet cached.
// Raylib's generators cover the round shapes; the polyhedra, capsule and ring come from geom.
func (r *Registry) EnsureShape(key string, kind hero.GeometryKind) {
	if r.Has(key) {
		return
	}
	d := r.defs[kind]
	var e entry
	switch kind {
	case hero.Box:
		e.meshes = []rl.Mesh{rl.GenMeshCube(d.Size[0], d.Size[1], d.Size[2])}
	case hero.Sphere:
		e.meshes = []rl.Mesh{rl.GenMeshSphere(d.Radius, d.Segments/2, d.Segments)}
	case hero.Cylinder:
		// Raylib cylinder: base Y=0, top Y=height. Offset -height/2 so its centre is the origin.
		e.meshes = []rl.Mesh{rl.GenMeshCylinder(d.Radius, d.Height, d.Segments)}
		e.offset = [3]float32{0, -d.Height / 2, 0}
	case hero.Cone:
		e.meshes = []rl.Mesh{rl.GenMeshCone(d.Radius, d.Height, d.Segments)}
		e.offset = [3]float32{0, -d.Height / 2, 0}
	case hero.Torus:
		// Raylib sizes rings by diameter and takes the tube as a fraction of the ring radius.
		e.meshes = []rl.Mesh{rl.GenMeshTorus(d.Tube/d.Radius, 2*d.Radius, d.Segments, d.Segments/2)}
	case hero.TorusKnot:
		e.meshes = []rl.Mesh{rl.GenMeshKnot(d.Tube/d.Radius, 2*d.Radius, d.Segments, d.Segments/8)}
	case hero.Octahedron:
		e.meshes = uploadMesh(geom.Octahedron(d.Radius))
	case hero.Tetrahedron:
		e.meshes = uploadMesh(geom.Tetrahedron(d.Radius))
	case hero.Icosahedron:
		e.meshes = uploadMesh(geom.Icosahedron(d.Radius))
	case hero.Dodecahedron:
		e.meshes = uploadMesh(geom.Dodecahedron(d.Radius))
	case hero.Capsule:
		e.meshes = uploadMesh(geom.Capsule(d.Radius, d.Height, d.Segments/2, d.Segments))
	case hero.Ring:
		e.meshes = uploadMesh(geom.Ring(d.Inner, d.Radius, d.Segments))
	default:
		// Lines and unknown kinds have no mesh.
		return
	}
	r.cache[key] = e
}

// Upload copies a CPU mesh to the GPU under key, replacing anything cached there.
func (r *Registry) Upload(key string, m geom.Mesh) {
	r.Release(key)
	r.cache[key] = entry{meshes: uploadMesh(m)}
}

// uploadMesh expands m into batches and uploads each one. Vertex data lives in
// raylib-allocated memory, which UnloadMesh frees.
func uploadMesh(m geom.Mesh) []rl.Mesh {
	batches := m.Batches(maxBatchVertices)
	out := make([]rl.Mesh, 0, len(batches))
	for _, b := range batches {
		n := len(b.Positions)
		mesh := rl.Mesh{VertexCount: int32(n), TriangleCount: int32(n / 3)}
		mesh.Vertices = (*float32)(rl.MemAlloc(uint32(n * 3 * 4)))
		mesh.Normals = (*float32)(rl.MemAlloc(uint32(n * 3 * 4)))
		verts := unsafe.Slice(mesh.Vertices, n*3)
		norms := unsafe.Slice(mesh.Normals, n*3)
		for i := range b.Positions {
			copy(verts[i*3:i*3+3], b.Positions[i][:])
			copy(norms[i*3:i*3+3], b.Normals[i][:])
		}
		rl.UploadMesh(&mesh, false)
		out = append(out, mesh)
	}
	return out
}

// Release unloads the meshes under key. Unknown keys are ignored.
func (r *Registry) Release(key string) {
	e, ok := r.cache[key]
	if !ok {
		return
	}
	for i := range e.meshes {
		rl.UnloadMesh(&e.meshes[i])
	}
	delete(r.cache, key)
}

// Len returns the number of cached keys.
func (r *Registry) Len() int {
	return len(r.cache)
}

// Draw draws the meshes under key with surface s and the given model transform.
// Must be called between BeginMode3D and EndMode3D, after SetLighting for the frame.
func (r *Registry) Draw(key string, s Surface, transform rl.Matrix) {
	e, ok := r.cache[key]
	if !ok {
		return
	}
	r.ensureMaterial()
	if albedo := r.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = s.Color
	}
	r.setSurfaceUniforms(s)
	if e.offset != ([3]float32{}) {
		offsetM := rl.MatrixTranslate(e.offset[0], e.offset[1], e.offset[2])
		transform = rl.MatrixMultiply(offsetM, transform)
	}
	if s.Wireframe {
		rl.EnableWireMode()
		defer rl.DisableWireMode()
	}
	if s.BackSide {
		rl.DisableBackfaceCulling()
		defer rl.EnableBackfaceCulling()
	}
	for _, m := range e.meshes {
		rl.DrawMesh(m, r.mtl, transform)
	}
}

// Close unloads every cached mesh and the shared material with its shader.
func (r *Registry) Close() {
	for key := range r.cache {
		r.Release(key)
	}
	clear(r.surface)
	if r.mtlOK {
		rl.UnloadMaterial(r.mtl)
		r.mtlOK = false
	}
}
