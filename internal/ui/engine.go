package ui

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const defaultFontSize = 20

//go:embed default.css
var defaultCSS string

// Engine holds the stylesheet and nodes, and draws them with raylib in node order.
// Resolved styles are cached until the sheet or the node list changes.
type Engine struct {
	sheet        *Stylesheet
	nodes        []*Node
	cachedStyles []ComputedStyle
	cacheValid   bool
	font         rl.Font
}

// New creates an engine with the built-in stylesheet.
func New() *Engine {
	sheet, err := ParseCSS(defaultCSS)
	if err != nil {
		panic(err)
	}
	return &Engine{sheet: sheet}
}

// LoadCSS parses the file at path and layers it over the built-in stylesheet.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	user, err := ParseCSS(string(data))
	if err != nil {
		return err
	}
	base, _ := ParseCSS(defaultCSS)
	e.SetStylesheet(Merge(base, user))
	return nil
}

// SetStylesheet replaces the stylesheet.
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	e.cacheValid = false
}

// Stylesheet returns the current stylesheet.
func (e *Engine) Stylesheet() *Stylesheet {
	return e.sheet
}

// SetFont sets the font for text. A zero texture ID means raylib's default font.
func (e *Engine) SetFont(font rl.Font) {
	e.font = font
}

// SetNodes replaces all nodes. Passing the same slice contents again keeps the style cache.
func (e *Engine) SetNodes(nodes []*Node) {
	if sameNodes(e.nodes, nodes) {
		return
	}
	e.nodes = append(e.nodes[:0], nodes...)
	e.cacheValid = false
}

func sameNodes(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Resolve merges every matching rule's declarations for n; later rules win.
func (e *Engine) Resolve(n *Node) ComputedStyle {
	merged := make(map[string]string)
	if e.sheet != nil {
		for _, rule := range e.sheet.Rules {
			if n.Matches(rule.Selector) {
				for k, v := range rule.Props {
					merged[k] = v
				}
			}
		}
	}
	return ResolveProps(merged)
}

// Place computes a node's screen rectangle from its style and offsets.
func Place(n *Node, style ComputedStyle, screenW, screenH int32) rl.Rectangle {
	w, h := style.Width, style.Height
	if w == 0 {
		w = int32(n.Bounds.Width)
	}
	if h == 0 {
		h = int32(n.Bounds.Height)
	}
	x, y := style.Left, style.Top
	switch {
	case style.LeftPct >= 0:
		x = (screenW - w) * style.LeftPct / 100
	case x < 0:
		x = screenW + x - w
	}
	switch {
	case style.TopPct >= 0:
		y = (screenH - h) * style.TopPct / 100
	case y < 0:
		y = screenH + y - h
	}
	return rl.NewRectangle(float32(x)+n.DX, float32(y)+n.DY, float32(w), float32(h))
}

// Wrap breaks text into lines no wider than width according to measure. Words longer than
// width get a line of their own. Explicit newlines are kept.
func Wrap(text string, width float32, measure func(string) float32) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if next := line + " " + w; width <= 0 || measure(next) <= width {
				line = next
				continue
			}
			out = append(out, line)
			line = w
		}
		out = append(out, line)
	}
	return out
}

func (e *Engine) measure(size int32) func(string) float32 {
	if e.font.Texture.ID != 0 {
		return func(s string) float32 { return rl.MeasureTextEx(e.font, s, float32(size), 1).X }
	}
	return func(s string) float32 { return float32(rl.MeasureText(s, size)) }
}

func (e *Engine) drawText(s string, x, y, size int32, c rl.Color) {
	if e.font.Texture.ID != 0 {
		rl.DrawTextEx(e.font, s, rl.NewVector2(float32(x), float32(y)), float32(size), 1, c)
		return
	}
	rl.DrawText(s, x, y, size, c)
}

// Draw draws every visible node: background, texture, border, then wrapped text.
func (e *Engine) Draw() {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	if !e.cacheValid {
		e.cachedStyles = e.cachedStyles[:0]
		for _, n := range e.nodes {
			e.cachedStyles = append(e.cachedStyles, e.Resolve(n))
		}
		e.cacheValid = true
	}
	for i, n := range e.nodes {
		style := e.cachedStyles[i]
		if style.Hidden {
			continue
		}
		n.Bounds = Place(n, style, screenW, screenH)
		x, y := int32(n.Bounds.X), int32(n.Bounds.Y)
		w, h := int32(n.Bounds.Width), int32(n.Bounds.Height)

		if style.Background.A > 0 {
			rl.DrawRectangle(x, y, w, h, style.Background)
		}
		if n.Texture.ID != 0 && w > 0 && h > 0 {
			src := rl.NewRectangle(0, 0, float32(n.Texture.Width), float32(n.Texture.Height))
			rl.DrawTexturePro(n.Texture, src, n.Bounds, rl.Vector2{}, 0, rl.White)
		}
		if style.HasBorder && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, style.Border)
		}
		if n.Text == "" {
			continue
		}
		pad := style.Padding
		lines := []string{n.Text}
		if w > 0 {
			lines = Wrap(n.Text, float32(w-2*pad), e.measure(style.FontSize))
		}
		ty := y + pad
		for _, line := range lines {
			if h > 0 && ty+style.FontSize > y+h {
				break
			}
			e.drawText(line, x+pad, ty, style.FontSize, style.Color)
			ty += style.FontSize + 4
		}
	}
}
