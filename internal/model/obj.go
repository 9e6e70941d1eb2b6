package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"showcase/internal/geom"
)

// decodeOBJ reads Wavefront OBJ geometry. Each "o"/"g" statement starts a new mesh;
// polygons are fan-triangulated. Materials (mtllib/usemtl) and texture coordinates are ignored.
func decodeOBJ(path string) (*Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	defer f.Close()
	g, err := parseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("obj: %s: %w", path, err)
	}
	g.Name = filepath.Base(path)
	return g, nil
}

type objCorner struct{ v, n int }

type objParser struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	group     *Group
	cur       *geom.Mesh
	remap     map[objCorner]uint32
	hasNormal bool
}

func parseOBJ(r io.Reader) (*Group, error) {
	p := &objParser{group: &Group{Format: "obj"}}
	p.begin("")
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		var err error
		switch fields[0] {
		case "v":
			var v mgl32.Vec3
			v, err = parseVec3(fields[1:])
			p.positions = append(p.positions, v)
		case "vn":
			var v mgl32.Vec3
			v, err = parseVec3(fields[1:])
			p.normals = append(p.normals, v)
		case "o", "g":
			name := ""
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}
			p.begin(name)
		case "f":
			err = p.face(fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	p.flush()
	if len(p.group.Meshes) == 0 {
		return nil, fmt.Errorf("no faces")
	}
	return p.group, nil
}

func (p *objParser) begin(name string) {
	p.flush()
	p.cur = &geom.Mesh{Name: name, Color: DefaultColor}
	p.remap = make(map[objCorner]uint32)
	p.hasNormal = true
}

func (p *objParser) flush() {
	if p.cur == nil || len(p.cur.Indices) == 0 {
		return
	}
	if !p.hasNormal {
		p.cur.ComputeNormals()
	}
	p.group.Meshes = append(p.group.Meshes, *p.cur)
	p.cur = nil
}

func (p *objParser) face(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("face with %d vertices", len(refs))
	}
	corners := make([]uint32, 0, len(refs))
	for _, ref := range refs {
		c, err := p.corner(ref)
		if err != nil {
			return err
		}
		corners = append(corners, c)
	}
	for i := 1; i+1 < len(corners); i++ {
		p.cur.Indices = append(p.cur.Indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// corner resolves a "v", "v/vt", "v//vn" or "v/vt/vn" reference to a mesh vertex index.
func (p *objParser) corner(ref string) (uint32, error) {
	parts := strings.Split(ref, "/")
	v, err := objIndex(parts[0], len(p.positions))
	if err != nil {
		return 0, err
	}
	n := -1
	if len(parts) == 3 && parts[2] != "" {
		if n, err = objIndex(parts[2], len(p.normals)); err != nil {
			return 0, err
		}
	}
	key := objCorner{v, n}
	if idx, ok := p.remap[key]; ok {
		return idx, nil
	}
	idx := uint32(len(p.cur.Positions))
	p.cur.Positions = append(p.cur.Positions, p.positions[v])
	if n >= 0 {
		p.cur.Normals = append(p.cur.Normals, safeNormal(p.normals[n]))
	} else {
		p.hasNormal = false
		p.cur.Normals = append(p.cur.Normals, mgl32.Vec3{})
	}
	p.remap[key] = idx
	return idx, nil
}

// objIndex converts a 1-based (or negative, relative) OBJ index to 0-based.
func objIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	if i < 0 {
		i = count + i
	} else {
		i--
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index %s out of range (%d)", s, count)
	}
	return i, nil
}

func parseVec3(fields []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(fields) < 3 {
		return v, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	for k := 0; k < 3; k++ {
		f, err := strconv.ParseFloat(fields[k], 32)
		if err != nil {
			return v, fmt.Errorf("bad number %q", fields[k])
		}
		v[k] = float32(f)
	}
	return v, nil
}
