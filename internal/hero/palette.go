package hero

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"
)

// GeometryKind selects one of the decorative shapes, or line segments for the floor grid.
type GeometryKind int

const (
	Box GeometryKind = iota
	Sphere
	Cylinder
	Cone
	Torus
	Octahedron
	Tetrahedron
	Icosahedron
	Dodecahedron
	TorusKnot
	Capsule
	Ring
	Lines
)

// ShapeKinds are the kinds decorative objects are drawn from.
var ShapeKinds = []GeometryKind{
	Box, Sphere, Cylinder, Cone, Torus, Octahedron,
	Tetrahedron, Icosahedron, Dodecahedron, TorusKnot, Capsule, Ring,
}

var kindNames = [...]string{"box", "sphere", "cylinder", "cone", "torus", "octahedron",
	"tetrahedron", "icosahedron", "dodecahedron", "torusknot", "capsule", "ring", "lines"}

func (k GeometryKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Geometry is a GPU-backed shape handle. Renderers key their mesh caches on ID.
// Lines holds segment endpoint pairs and is only set for Lines geometries.
type Geometry struct {
	ID    int
	Kind  GeometryKind
	Lines []mgl64.Vec3
}

// Material holds the surface parameters of one drawable. Colours are 0xRRGGBB.
type Material struct {
	ID                 int
	Color              uint32
	Emissive           mgl64.Vec3
	EmissiveIntensity  float64
	Metalness          float64
	Roughness          float64
	Opacity            float64
	Clearcoat          float64
	ClearcoatRoughness float64
	Reflectivity       float64
	EnvMapIntensity    float64
	Transparent        bool
	Wireframe          bool
	// BackSide draws only back faces (used by outlines).
	BackSide bool
	// Unlit ignores scene lights.
	Unlit bool
}

// clone returns an independent copy of m with a zero ID.
func (m *Material) clone() *Material {
	c := new(Material)
	if err := copier.CopyWithOption(c, m, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("hero: clone material %d: %v", m.ID, err))
	}
	c.ID = 0
	return c
}

// Palette colours for decorative objects.
var Palette = []uint32{
	0xff6b6b, 0x4ecdc4, 0x45b7d1, 0xf9ca24, 0xf0932b, 0xeb4d4b, 0x6c5ce7,
	0xa29bfe, 0xfd79a8, 0x00cec9, 0x0984e3, 0x00b894, 0xe17055, 0xd63031,
	0xfdcb6e, 0xe84393, 0x6c5ce7, 0x00cec9, 0x81ecec, 0x55efc4,
}

// RGB splits 0xRRGGBB into components in [0,1].
func RGB(c uint32) mgl64.Vec3 {
	return mgl64.Vec3{
		float64(c>>16&0xff) / 255,
		float64(c>>8&0xff) / 255,
		float64(c&0xff) / 255,
	}
}

// paletteMaterial draws the physical parameters for one palette colour.
func paletteMaterial(color uint32, rng Rand) Material {
	return Material{
		Color:              color,
		Metalness:          0.4 + rng.Float64()*0.4,
		Roughness:          0.1 + rng.Float64()*0.2,
		Transparent:        true,
		Opacity:            0.9 + rng.Float64()*0.1,
		Clearcoat:          0.5 + rng.Float64()*0.5,
		ClearcoatRoughness: 0.1 + rng.Float64()*0.2,
		Reflectivity:       0.5 + rng.Float64()*0.3,
		EnvMapIntensity:    0.5 + rng.Float64()*0.5,
		Emissive:           RGB(color).Mul(0.1),
		EmissiveIntensity:  0.2 + rng.Float64()*0.3,
	}
}

// outlineMaterial is the shared white back-face material of every outline.
func outlineMaterial() Material {
	return Material{Color: 0xffffff, Opacity: 1, BackSide: true, Unlit: true}
}

// Rand is the randomness the scene builder draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a seeded PCG generator so a seed reproduces a scene.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
