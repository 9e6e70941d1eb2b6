package primitives

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"showcase/internal/hero"
)

// Def is the YAML definition of one decorative shape's default dimensions.
type Def struct {
	Kind     string     `yaml:"kind"`
	Size     [3]float32 `yaml:"size,omitempty"`
	Radius   float32    `yaml:"radius,omitempty"`
	Inner    float32    `yaml:"inner,omitempty"`
	Height   float32    `yaml:"height,omitempty"`
	Tube     float32    `yaml:"tube,omitempty"`
	Segments int        `yaml:"segments,omitempty"`
}

//go:embed shapes.yaml
var shapesYAML []byte

// ParseDefs decodes a shape table and keys it by geometry kind. Every kind must be known.
func ParseDefs(data []byte) (map[hero.GeometryKind]Def, error) {
	var list []Def
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse shape defs: %w", err)
	}
	byName := make(map[string]hero.GeometryKind, len(hero.ShapeKinds))
	for _, k := range hero.ShapeKinds {
		byName[k.String()] = k
	}
	out := make(map[hero.GeometryKind]Def, len(list))
	for _, d := range list {
		k, ok := byName[d.Kind]
		if !ok {
			return nil, fmt.Errorf("parse shape defs: unknown kind %q", d.Kind)
		}
		out[k] = d
	}
	return out, nil
}

// DefaultDefs returns the built-in shape table.
func DefaultDefs() map[hero.GeometryKind]Def {
	defs, err := ParseDefs(shapesYAML)
	if err != nil {
		panic(err)
	}
	return defs
}
