package model

import (
	"fmt"
	"os"

	"showcase/internal/archive"
)

// zipDecoder unpacks a bundle into a temporary directory and decodes the first model
// file inside it with the registry's other decoders.
type zipDecoder struct {
	r *Registry
}

func (z zipDecoder) Decode(path string) (*Group, error) {
	dir, err := os.MkdirTemp("", "showcase-model-*")
	if err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}
	defer os.RemoveAll(dir)
	files, err := archive.Unzip(path, dir)
	if err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}
	inner, ok := archive.FindFirst(files, func(ext string) bool {
		d, ok := z.r.decoders[ext]
		_, nested := d.(zipDecoder)
		return ok && !nested
	})
	if !ok {
		return nil, fmt.Errorf("zip %s: %w: no model inside", path, ErrUnsupported)
	}
	g, err := z.r.decoders[Ext(inner)].Decode(inner)
	if err != nil {
		return nil, err
	}
	g.Format = "zip/" + g.Format
	return g, nil
}
