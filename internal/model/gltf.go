package model

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"showcase/internal/geom"
)

// decodeGLTF reads .gltf (with external or embedded buffers) and .glb files.
// Node transforms are applied so the meshes land where the authoring tool placed them.
func decodeGLTF(path string) (*Group, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf: open %s: %w", path, err)
	}
	g := &Group{Name: filepath.Base(path), Format: "gltf"}

	visited := false
	for _, sc := range doc.Scenes {
		for _, n := range sc.Nodes {
			visited = true
			if err := walkGLTFNode(doc, int(n), mgl32.Ident4(), g); err != nil {
				return nil, err
			}
		}
	}
	if !visited {
		for i := range doc.Meshes {
			if err := appendGLTFMesh(doc, i, mgl32.Ident4(), g); err != nil {
				return nil, err
			}
		}
	}
	if len(g.Meshes) == 0 {
		return nil, fmt.Errorf("gltf: %s has no triangle meshes", path)
	}
	return g, nil
}

func walkGLTFNode(doc *gltf.Document, idx int, parent mgl32.Mat4, g *Group) error {
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("gltf: node %d out of range", idx)
	}
	n := doc.Nodes[idx]
	world := parent.Mul4(nodeMatrix(n))
	if n.Mesh != nil {
		if err := appendGLTFMesh(doc, int(*n.Mesh), world, g); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := walkGLTFNode(doc, int(c), world, g); err != nil {
			return err
		}
	}
	return nil
}

var identity16 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeMatrix returns the node's local transform: the explicit matrix when set, TRS otherwise.
// Both glTF and mgl32 matrices are column-major.
func nodeMatrix(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != identity16 && n.Matrix != [16]float64{} {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}
	t, r, s := n.Translation, n.Rotation, n.Scale
	if r == [4]float64{} {
		r[3] = 1
	}
	if s == [3]float64{} {
		s = [3]float64{1, 1, 1}
	}
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func appendGLTFMesh(doc *gltf.Document, idx int, world mgl32.Mat4, g *Group) error {
	if idx < 0 || idx >= len(doc.Meshes) {
		return fmt.Errorf("gltf: mesh %d out of range", idx)
	}
	src := doc.Meshes[idx]
	normalMat := world.Mat3().Inv().Transpose()
	for pi, prim := range src.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("gltf: mesh %q primitive %d positions: %w", src.Name, pi, err)
		}
		m := geom.Mesh{Name: src.Name, Color: gltfColor(doc, prim)}
		for _, p := range positions {
			v := world.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
			m.Positions = append(m.Positions, v.Vec3())
		}
		if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err := modeler.ReadNormal(doc, doc.Accessors[nIdx], nil)
			if err != nil {
				return fmt.Errorf("gltf: mesh %q primitive %d normals: %w", src.Name, pi, err)
			}
			for _, n := range normals {
				m.Normals = append(m.Normals, safeNormal(normalMat.Mul3x1(mgl32.Vec3{n[0], n[1], n[2]})))
			}
		}
		if prim.Indices != nil {
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("gltf: mesh %q primitive %d indices: %w", src.Name, pi, err)
			}
			m.Indices = indices
		}
		if len(m.Normals) != len(m.Positions) {
			m.ComputeNormals()
		}
		g.Meshes = append(g.Meshes, m)
	}
	return nil
}

func gltfColor(doc *gltf.Document, prim *gltf.Primitive) color.RGBA {
	if prim.Material == nil || int(*prim.Material) >= len(doc.Materials) {
		return DefaultColor
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	f := pbr.BaseColorFactor
	return color.RGBA{unit8(float64(f[0])), unit8(float64(f[1])), unit8(float64(f[2])), unit8(float64(f[3]))}
}

func unit8(v float64) uint8 {
	return uint8(max(0, min(1, v))*255 + 0.5)
}

func safeNormal(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Normalize()
}
