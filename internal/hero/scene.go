package hero

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ObjectCount is the number of decorative objects in a scene.
	ObjectCount = 45
	// OutlineScale is how much larger an outline is than its owner.
	OutlineScale = 1.05

	wireframeChance = 0.1
	outlineChance   = 0.7

	gridSize      = 300.0
	gridDivisions = 80
	gridHeight    = -15.0
	sparseHeight  = -15.1
	sparseFactor  = 5
)

// Placement box for object base positions (full extents, centred on the origin).
var spawnExtent = mgl64.Vec3{70, 25, 40}

// Pose is a transform with XYZ Euler rotation in radians.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
}

// Params are the randomized animation parameters of one object, fixed for its lifetime.
type Params struct {
	RotationSpeed  mgl64.Vec3
	FloatSpeed     float64
	FloatAmplitude float64
	// DriftSpeed is drawn for every object but no current motion reads it.
	DriftSpeed     float64
	PulseSpeed     float64
	PulseAmplitude float64
	OutlineVisible bool
}

// Outline is the enlarged back-face silhouette paired with an object. Its pose is always
// derived from the owner's; it shares the owner's geometry.
type Outline struct {
	Material *Material
	Visible  bool
	Pose     Pose
}

// Object is one decorative shape. Base is set at build time and never mutated.
type Object struct {
	Geometry *Geometry
	Material *Material
	Base     Pose
	Params   Params
	Pose     Pose
	Outline  *Outline
}

// LightKind identifies a light type.
type LightKind int

const (
	AmbientLight LightKind = iota
	DirectionalLight
	PointLight
	HemisphereLight
)

// Light is a scene light. Colours are 0xRRGGBB. A point light with FollowCamera is
// positioned relative to the camera each frame, Offset units behind it.
type Light struct {
	Kind         LightKind
	Color        uint32
	GroundColor  uint32
	Intensity    float64
	Position     mgl64.Vec3
	Range        float64
	Decay        float64
	FollowCamera bool
	Offset       float64
}

// Camera is a perspective camera. Fov is vertical, in degrees.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	Fov      float64
	Aspect   float64
	Near     float64
	Far      float64
}

// LineSet is one batch of grid line segments.
type LineSet struct {
	Geometry *Geometry
	Material *Material
}

// Scene owns everything a hero surface draws. Geometries and Materials list every
// resource created for it, each exactly once, for teardown.
type Scene struct {
	Camera      Camera
	Background  uint32
	Lights      []Light
	Grid        []LineSet
	GridVisible bool
	Objects     []Object
	Centroid    mgl64.Vec3

	Geometries []*Geometry
	Materials  []*Material
	nextID     int
}

func (s *Scene) newGeometry(kind GeometryKind, lines []mgl64.Vec3) *Geometry {
	s.nextID++
	g := &Geometry{ID: s.nextID, Kind: kind, Lines: lines}
	s.Geometries = append(s.Geometries, g)
	return g
}

func (s *Scene) addMaterial(m *Material) *Material {
	s.nextID++
	m.ID = s.nextID
	s.Materials = append(s.Materials, m)
	return m
}

// Build constructs a hero scene for a surface of the given pixel size.
func Build(width, height int, rng Rand) *Scene {
	s := &Scene{Background: 0x050505, GridVisible: true}
	s.Camera = Camera{
		Position: mgl64.Vec3{0, 0, OrbitRadius},
		Up:       mgl64.Vec3{0, 1, 0},
		Fov:      50,
		Aspect:   aspect(width, height),
		Near:     0.1,
		Far:      1000,
	}
	s.Lights = []Light{
		{Kind: PointLight, Color: 0xffffff, Intensity: 200, Range: 50, Decay: 1.5, FollowCamera: true, Offset: 5},
		{Kind: AmbientLight, Color: 0x444444, Intensity: 0.6},
		{Kind: DirectionalLight, Color: 0x6699ff, Intensity: 0.5, Position: mgl64.Vec3{5, 5, 5}},
		{Kind: HemisphereLight, Color: 0x443388, GroundColor: 0x228855, Intensity: 0.4},
	}
	s.buildGrid()

	shapes := make([]*Geometry, len(ShapeKinds))
	for i, k := range ShapeKinds {
		shapes[i] = s.newGeometry(k, nil)
	}
	palette := make([]*Material, len(Palette))
	for i, c := range Palette {
		m := paletteMaterial(c, rng)
		palette[i] = s.addMaterial(&m)
	}
	outline := outlineMaterial()
	outlineMtl := s.addMaterial(&outline)

	s.Objects = make([]Object, ObjectCount)
	var sum mgl64.Vec3
	for i := range s.Objects {
		o := &s.Objects[i]
		o.Geometry = shapes[rng.IntN(len(shapes))]
		mtl := palette[rng.IntN(len(palette))].clone()
		if rng.Float64() < wireframeChance {
			mtl.Wireframe = true
			mtl.Emissive = RGB(mtl.Color).Mul(0.3)
		}
		o.Material = s.addMaterial(mtl)

		o.Base.Position = mgl64.Vec3{
			(rng.Float64() - 0.5) * spawnExtent[0],
			(rng.Float64() - 0.5) * spawnExtent[1],
			(rng.Float64() - 0.5) * spawnExtent[2],
		}
		sum = sum.Add(o.Base.Position)
		scale := 0.5 + rng.Float64()*1.2
		o.Base.Scale = mgl64.Vec3{scale, scale, scale}
		o.Base.Rotation = mgl64.Vec3{
			rng.Float64() * 2 * math.Pi,
			rng.Float64() * 2 * math.Pi,
			rng.Float64() * 2 * math.Pi,
		}
		o.Params = Params{
			RotationSpeed: mgl64.Vec3{
				(rng.Float64() - 0.5) * 0.02,
				(rng.Float64() - 0.5) * 0.02,
				(rng.Float64() - 0.5) * 0.02,
			},
			FloatSpeed:     0.3 + rng.Float64()*1.5,
			FloatAmplitude: 0.4 + rng.Float64()*1.0,
			DriftSpeed:     0.1 + rng.Float64()*0.4,
			PulseSpeed:     0.5 + rng.Float64()*1.0,
			PulseAmplitude: 0.1 + rng.Float64()*0.2,
			OutlineVisible: rng.Float64() < outlineChance,
		}
		o.Pose = o.Base
		o.Outline = &Outline{Material: outlineMtl, Visible: o.Params.OutlineVisible, Pose: outlinePose(o.Base)}
	}
	s.Centroid = sum.Mul(1 / float64(len(s.Objects)))
	s.Camera.Target = s.Centroid
	return s
}

// buildGrid lays out the floor: a dense grid with a brighter centre cross and a sparse overlay.
func (s *Scene) buildGrid() {
	half := gridSize / 2
	step := gridSize / gridDivisions
	var lines, centre []mgl64.Vec3
	for i := 0; i <= gridDivisions; i++ {
		pos := -half + float64(i)*step
		seg := []mgl64.Vec3{
			{pos, gridHeight, -half}, {pos, gridHeight, half},
			{-half, gridHeight, pos}, {half, gridHeight, pos},
		}
		if i == gridDivisions/2 {
			centre = append(centre, seg...)
		} else {
			lines = append(lines, seg...)
		}
	}

	sparseDiv := gridDivisions / sparseFactor
	sparseStep := gridSize / float64(sparseDiv)
	var sparse []mgl64.Vec3
	for i := 0; i <= sparseDiv; i++ {
		pos := -half + float64(i)*sparseStep
		sparse = append(sparse,
			mgl64.Vec3{pos, sparseHeight, -half}, mgl64.Vec3{pos, sparseHeight, half},
			mgl64.Vec3{-half, sparseHeight, pos}, mgl64.Vec3{half, sparseHeight, pos},
		)
	}

	add := func(verts []mgl64.Vec3, color uint32, opacity float64) {
		m := &Material{Color: color, Opacity: opacity, Transparent: true, Unlit: true}
		s.Grid = append(s.Grid, LineSet{Geometry: s.newGeometry(Lines, verts), Material: s.addMaterial(m)})
	}
	add(lines, 0x222222, 0.2)
	add(centre, 0x444444, 0.3)
	add(sparse, 0x444444, 0.1)
}

func aspect(width, height int) float64 {
	if height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}
