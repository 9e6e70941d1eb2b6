// Package debug draws the top-right overlay: FPS, heap use and scene stats.
package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: text is rebuilt every N frames to limit allocations.
	updateInterval = 30
)

// Stats describes the active scene for the overlay.
type Stats struct {
	Mode      string
	Objects   int
	Frame     uint64
	Model     string
	Triangles int
	Pending   int
}

// Lines formats stats for display. Viewer fields are only shown in viewer mode.
func (s Stats) Lines() []string {
	if s.Mode == "" {
		return nil
	}
	out := []string{fmt.Sprintf("Mode: %s", s.Mode)}
	switch s.Mode {
	case "hero":
		out = append(out, fmt.Sprintf("Objects: %d", s.Objects), fmt.Sprintf("Frame: %d", s.Frame))
	case "viewer":
		model := s.Model
		if model == "" {
			model = "none"
		}
		out = append(out, "Model: "+model, fmt.Sprintf("Triangles: %d", s.Triangles))
		if s.Pending > 0 {
			out = append(out, fmt.Sprintf("Loading: %d", s.Pending))
		}
	}
	return out
}

// Debug holds the overlay switches. Everything is hidden by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool
	font         rl.Font
	frameCount   uint32
	fpsText      string
	memText      string
	statsText    []string
	memStats     runtime.MemStats
}

// New returns a Debug with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS toggles the FPS counter.
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc toggles the heap counter.
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// SetShowStats toggles the scene stats.
func (d *Debug) SetShowStats(show bool) {
	d.ShowStats = show
}

// SetFont sets the overlay font. Zero texture ID = raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Draw renders the enabled overlays right-aligned from the top. Call after the scene.
func (d *Debug) Draw(s Stats) {
	d.frameCount++
	update := d.frameCount%updateInterval == 0
	if (d.ShowFPS && d.fpsText == "") || (d.ShowMemAlloc && d.memText == "") || (d.ShowStats && d.statsText == nil) {
		update = true
	}
	if update {
		d.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		runtime.ReadMemStats(&d.memStats)
		d.memText = fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024))
		d.statsText = s.Lines()
	}

	y := int32(padding)
	if d.ShowFPS {
		d.line(d.fpsText, y, rl.Green)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		d.line(d.memText, y, rl.Green)
		y += lineHeight
	}
	if d.ShowStats {
		for _, l := range d.statsText {
			d.line(l, y, rl.SkyBlue)
			y += lineHeight
		}
	}
}

func (d *Debug) line(text string, y int32, c rl.Color) {
	screenW := float32(rl.GetScreenWidth())
	if d.font.Texture.ID != 0 {
		sz := float32(fontSize)
		pos := rl.NewVector2(screenW-rl.MeasureTextEx(d.font, text, sz, 1).X-padding, float32(y))
		rl.DrawTextEx(d.font, text, pos, sz, 1, c)
		return
	}
	x := int32(screenW) - rl.MeasureText(text, fontSize) - padding
	rl.DrawText(text, x, y, fontSize, c)
}
