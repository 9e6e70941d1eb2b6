package model

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"showcase/internal/geom"
)

const fbxMagic = "Kaydara FBX Binary  \x00"

// maxInflateRatio is the largest expansion deflate can produce.
const maxInflateRatio = 1032

var errFBXASCII = errors.New("not a binary FBX file (ASCII FBX is not supported)")

// fbxNode is one record of the binary FBX node tree.
type fbxNode struct {
	Name     string
	Props    []any
	Children []*fbxNode
}

func (n *fbxNode) child(name string) *fbxNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// decodeFBX reads binary FBX (7.x) and extracts every Geometry's polygon mesh.
// Model transforms, materials and animation are not applied.
func decodeFBX(path string) (*Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fbx: %w", err)
	}
	g, err := parseFBX(data)
	if err != nil {
		return nil, fmt.Errorf("fbx: %s: %w", path, err)
	}
	g.Name = filepath.Base(path)
	return g, nil
}

func parseFBX(data []byte) (*Group, error) {
	roots, err := readFBXTree(data)
	if err != nil {
		return nil, err
	}
	g := &Group{Format: "fbx"}
	for _, root := range roots {
		if root.Name != "Objects" {
			continue
		}
		for _, obj := range root.Children {
			if obj.Name != "Geometry" {
				continue
			}
			m, ok, err := fbxGeometry(obj)
			if err != nil {
				return nil, err
			}
			if ok {
				g.Meshes = append(g.Meshes, m)
			}
		}
	}
	if len(g.Meshes) == 0 {
		return nil, fmt.Errorf("no mesh geometry")
	}
	return g, nil
}

func fbxGeometry(n *fbxNode) (geom.Mesh, bool, error) {
	vn, in := n.child("Vertices"), n.child("PolygonVertexIndex")
	if vn == nil || in == nil || len(vn.Props) == 0 || len(in.Props) == 0 {
		return geom.Mesh{}, false, nil
	}
	var coords []float64
	switch v := vn.Props[0].(type) {
	case []float64:
		coords = v
	case []float32:
		for _, f := range v {
			coords = append(coords, float64(f))
		}
	default:
		return geom.Mesh{}, false, fmt.Errorf("geometry vertices have type %T", v)
	}
	indices, ok := in.Props[0].([]int32)
	if !ok {
		return geom.Mesh{}, false, fmt.Errorf("geometry indices have type %T", in.Props[0])
	}

	m := geom.Mesh{Color: DefaultColor}
	if len(n.Props) > 1 {
		if name, ok := n.Props[1].(string); ok {
			m.Name = fbxObjectName(name)
		}
	}
	for i := 0; i+2 < len(coords); i += 3 {
		m.Positions = append(m.Positions, mgl32.Vec3{float32(coords[i]), float32(coords[i+1]), float32(coords[i+2])})
	}
	var poly []uint32
	for _, raw := range indices {
		idx := raw
		last := raw < 0
		if last {
			idx = ^raw
		}
		if int(idx) >= len(m.Positions) {
			return geom.Mesh{}, false, fmt.Errorf("polygon index %d out of range (%d)", idx, len(m.Positions))
		}
		poly = append(poly, uint32(idx))
		if !last {
			continue
		}
		for k := 1; k+1 < len(poly); k++ {
			m.Indices = append(m.Indices, poly[0], poly[k], poly[k+1])
		}
		poly = poly[:0]
	}
	if len(m.Indices) == 0 {
		return geom.Mesh{}, false, nil
	}
	m.ComputeNormals()
	return m, true, nil
}

// fbxObjectName strips the "\x00\x01Class" suffix binary FBX appends to object names.
func fbxObjectName(s string) string {
	if i := bytes.Index([]byte(s), []byte{0, 1}); i >= 0 {
		return s[:i]
	}
	return s
}

type fbxReader struct {
	data    []byte
	off     int
	wide    bool // version >= 7500: 64-bit record header fields
	version uint32
}

func readFBXTree(data []byte) ([]*fbxNode, error) {
	if len(data) < 27 || string(data[:len(fbxMagic)]) != fbxMagic {
		return nil, errFBXASCII
	}
	r := &fbxReader{data: data, off: 23}
	r.version = binary.LittleEndian.Uint32(data[23:27])
	r.off = 27
	r.wide = r.version >= 7500
	var roots []*fbxNode
	for {
		n, end, err := r.node()
		if err != nil {
			return nil, err
		}
		if end {
			return roots, nil
		}
		roots = append(roots, n)
	}
}

func (r *fbxReader) need(n int) error {
	if n < 0 || r.off+n > len(r.data) {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func (r *fbxReader) uint(wide bool) (uint64, error) {
	if wide {
		if err := r.need(8); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint64(r.data[r.off:])
		r.off += 8
		return v, nil
	}
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return uint64(v), nil
}

// node reads one record. end is true for the null record closing a node list
// (or for a file that simply ends, which some exporters produce).
func (r *fbxReader) node() (n *fbxNode, end bool, err error) {
	if r.off >= len(r.data) {
		return nil, true, nil
	}
	endOffset, err := r.uint(r.wide)
	if err != nil {
		return nil, false, err
	}
	numProps, err := r.uint(r.wide)
	if err != nil {
		return nil, false, err
	}
	if _, err := r.uint(r.wide); err != nil {
		return nil, false, err
	}
	if err := r.need(1); err != nil {
		return nil, false, err
	}
	nameLen := int(r.data[r.off])
	r.off++
	if endOffset == 0 {
		return nil, true, nil
	}
	if endOffset > uint64(len(r.data)) {
		return nil, false, fmt.Errorf("record end %d beyond file size %d", endOffset, len(r.data))
	}
	if err := r.need(nameLen); err != nil {
		return nil, false, err
	}
	n = &fbxNode{Name: string(r.data[r.off : r.off+nameLen])}
	r.off += nameLen
	for i := uint64(0); i < numProps; i++ {
		p, err := r.property()
		if err != nil {
			return nil, false, fmt.Errorf("%s property %d: %w", n.Name, i, err)
		}
		n.Props = append(n.Props, p)
	}
	// The end offset must lie past the header and properties or the cursor would move backwards.
	if endOffset < uint64(r.off) {
		return nil, false, fmt.Errorf("%s: record end %d before offset %d", n.Name, endOffset, r.off)
	}
	for uint64(r.off) < endOffset {
		c, end, err := r.node()
		if err != nil {
			return nil, false, err
		}
		if end {
			break
		}
		n.Children = append(n.Children, c)
	}
	r.off = int(endOffset)
	return n, false, nil
}

func (r *fbxReader) property() (any, error) {
	if err := r.need(1); err != nil {
		return nil, err
	}
	code := r.data[r.off]
	r.off++
	le := binary.LittleEndian
	scalar := func(size int) ([]byte, error) {
		if err := r.need(size); err != nil {
			return nil, err
		}
		b := r.data[r.off : r.off+size]
		r.off += size
		return b, nil
	}
	switch code {
	case 'Y':
		b, err := scalar(2)
		if err != nil {
			return nil, err
		}
		return int16(le.Uint16(b)), nil
	case 'C':
		b, err := scalar(1)
		if err != nil {
			return nil, err
		}
		return b[0] != 0, nil
	case 'I':
		b, err := scalar(4)
		if err != nil {
			return nil, err
		}
		return int32(le.Uint32(b)), nil
	case 'F':
		b, err := scalar(4)
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(le.Uint32(b)), nil
	case 'D':
		b, err := scalar(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(le.Uint64(b)), nil
	case 'L':
		b, err := scalar(8)
		if err != nil {
			return nil, err
		}
		return int64(le.Uint64(b)), nil
	case 'S', 'R':
		size, err := r.uint(false)
		if err != nil {
			return nil, err
		}
		b, err := scalar(int(size))
		if err != nil {
			return nil, err
		}
		if code == 'S' {
			return string(b), nil
		}
		return append([]byte(nil), b...), nil
	case 'f', 'd', 'l', 'i', 'b':
		return r.array(code)
	}
	return nil, fmt.Errorf("unknown property type %q", code)
}

func (r *fbxReader) array(code byte) (any, error) {
	count, err := r.uint(false)
	if err != nil {
		return nil, err
	}
	encoding, err := r.uint(false)
	if err != nil {
		return nil, err
	}
	size, err := r.uint(false)
	if err != nil {
		return nil, err
	}
	if err := r.need(int(size)); err != nil {
		return nil, err
	}
	raw := r.data[r.off : r.off+int(size)]
	r.off += int(size)

	elem := map[byte]int{'f': 4, 'd': 8, 'l': 8, 'i': 4, 'b': 1}[code]
	want := int(count) * elem
	switch encoding {
	case 0:
	case 1:
		if want > len(raw)*maxInflateRatio {
			return nil, fmt.Errorf("array inflate: %d elements from %d bytes", count, len(raw))
		}
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("array inflate: %w", err)
		}
		buf := make([]byte, want)
		_, err = io.ReadFull(zr, buf)
		_ = zr.Close()
		if err != nil {
			return nil, fmt.Errorf("array inflate: %w", err)
		}
		raw = buf
	default:
		return nil, fmt.Errorf("unknown array encoding %d", encoding)
	}
	if len(raw) < want {
		return nil, io.ErrUnexpectedEOF
	}

	le := binary.LittleEndian
	switch code {
	case 'f':
		out := make([]float32, count)
		for i := range out {
			out[i] = math.Float32frombits(le.Uint32(raw[4*i:]))
		}
		return out, nil
	case 'd':
		out := make([]float64, count)
		for i := range out {
			out[i] = math.Float64frombits(le.Uint64(raw[8*i:]))
		}
		return out, nil
	case 'l':
		out := make([]int64, count)
		for i := range out {
			out[i] = int64(le.Uint64(raw[8*i:]))
		}
		return out, nil
	case 'i':
		out := make([]int32, count)
		for i := range out {
			out[i] = int32(le.Uint32(raw[4*i:]))
		}
		return out, nil
	default:
		out := make([]bool, count)
		for i := range out {
			out[i] = raw[i] != 0
		}
		return out, nil
	}
}
