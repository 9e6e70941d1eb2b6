package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is a single UI element. Class and ID are matched by CSS; Type matches bare selectors.
type Node struct {
	Type   string // "panel", "label", "image"
	Class  string
	ID     string
	Bounds rl.Rectangle
	Text   string
	// Texture is drawn scaled into the bounds when loaded.
	Texture rl.Texture2D
	// DX, DY shift the styled position, for repeated nodes sharing a class.
	DX, DY float32
}

// NewNode creates a node with type and optional class, id and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text}
}

// Matches reports whether a simple selector applies to n.
func (n *Node) Matches(sel string) bool {
	if sel == "" {
		return false
	}
	switch sel[0] {
	case '.':
		return n.Class == sel[1:]
	case '#':
		return n.ID == sel[1:]
	}
	return n.Type == sel
}
