// Package model decodes 3D model files into geom meshes. Decoding is pure Go so it can run
// off the frame thread; GPU upload happens later in primitives.
package model

import (
	"errors"
	"fmt"
	"image/color"
	"path"
	"strings"

	"showcase/internal/geom"
)

// ErrUnsupported is returned for file extensions no decoder handles.
var ErrUnsupported = errors.New("unsupported format")

// DefaultColor tints meshes whose file carries no colour (STL, OBJ, FBX).
var DefaultColor = color.RGBA{0x88, 0x88, 0x88, 0xff}

// Group is a decoded model: one or more meshes sharing a transform.
type Group struct {
	Name   string
	Format string
	Meshes []geom.Mesh
}

// TriangleCount sums triangles over all meshes.
func (g *Group) TriangleCount() int {
	n := 0
	for i := range g.Meshes {
		n += g.Meshes[i].TriangleCount()
	}
	return n
}

// Decoder reads a model file from disk.
type Decoder interface {
	Decode(path string) (*Group, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(path string) (*Group, error)

func (f DecoderFunc) Decode(path string) (*Group, error) { return f(path) }

// Registry maps lower-case extensions (without dot) to decoders.
type Registry struct {
	decoders map[string]Decoder
}

// NewRegistry returns a registry with the built-in glTF/GLB, FBX, OBJ and STL decoders, plus
// zip bundles holding one of those.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[string]Decoder)}
	r.Register(DecoderFunc(decodeGLTF), "gltf", "glb")
	r.Register(DecoderFunc(decodeFBX), "fbx")
	r.Register(DecoderFunc(decodeOBJ), "obj")
	r.Register(DecoderFunc(decodeSTL), "stl")
	r.Register(zipDecoder{r}, "zip")
	return r
}

// Register installs d for each extension, replacing any previous decoder.
func (r *Registry) Register(d Decoder, exts ...string) {
	for _, ext := range exts {
		r.decoders[strings.ToLower(strings.TrimPrefix(ext, "."))] = d
	}
}

// Ext returns the lower-case extension of a URL or path, without query string or dot.
func Ext(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return strings.ToLower(strings.TrimPrefix(path.Ext(url), "."))
}

// For returns the decoder for url's extension or an ErrUnsupported-wrapping error.
func (r *Registry) For(url string) (Decoder, error) {
	ext := Ext(url)
	d, ok := r.decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	return d, nil
}

// Supports reports whether url has a registered extension.
func (r *Registry) Supports(url string) bool {
	_, err := r.For(url)
	return err == nil
}
