// Package catalog lists the models the viewer can show.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrNotFound is returned by Find for an unknown id.
var ErrNotFound = errors.New("catalog: no such item")

// Color is a 0xRRGGBB colour written as "#rrggbb", "0xrrggbb" or a plain integer.
type Color uint32

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseColor(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

// ParseColor decodes "#rrggbb", "0xrrggbb" or a decimal integer.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	var (
		v   uint64
		err error
	)
	switch {
	case strings.HasPrefix(s, "#"):
		if len(s) != 7 {
			return 0, fmt.Errorf("colour %q: want #rrggbb", s)
		}
		v, err = strconv.ParseUint(s[1:], 16, 32)
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 32)
	default:
		v, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil || v > 0xffffff {
		return 0, fmt.Errorf("colour %q: not a 24-bit colour", s)
	}
	return Color(v), nil
}

// Item is one catalog entry.
type Item struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	ModelURL    string `yaml:"model_url"`
	Thumbnail   string `yaml:"thumbnail,omitempty"`
	Background  Color  `yaml:"background_color"`
}

// Catalog is an ordered list of items with unique ids.
type Catalog struct {
	Items []Item
}

// Parse decodes a YAML item list and checks that ids are unique and every item has a model.
func Parse(data []byte) (*Catalog, error) {
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	seen := make(map[int]bool, len(items))
	for i, it := range items {
		if seen[it.ID] {
			return nil, fmt.Errorf("catalog: item %d: duplicate id %d", i, it.ID)
		}
		seen[it.ID] = true
		if it.ModelURL == "" {
			return nil, fmt.Errorf("catalog: item %d (id %d): missing model_url", i, it.ID)
		}
	}
	return &Catalog{Items: items}, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog file. An empty path or a missing file yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Parse(data)
}

// Find returns the item with the given id.
func (c *Catalog) Find(id int) (Item, error) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// First returns the first item, if any.
func (c *Catalog) First() (Item, bool) {
	if len(c.Items) == 0 {
		return Item{}, false
	}
	return c.Items[0], true
}

// Others returns every item except the one with the given id, in catalog order.
func (c *Catalog) Others(id int) []Item {
	out := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
