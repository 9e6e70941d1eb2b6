// Package graphics owns the raylib window and the display-driven frame loop.
package graphics

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Window describes the window to open.
type Window struct {
	Width, Height int
	Title         string
	TargetFPS     int
	Fullscreen    bool
	// Background clears the frame when the active scene draws nothing behind itself.
	Background rl.Color
}

// Surface reports the current window size. It satisfies the scene mount interfaces.
type Surface struct{}

// Size returns the render size of the window.
func (Surface) Size() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// Hooks are the callbacks Run drives. Init runs once the window and GL context exist;
// Close runs before the window is destroyed. Any may be nil.
type Hooks struct {
	Init   func() error
	Update func()
	Draw   func()
	Close  func()
}

// Run opens the window and runs the main loop until the window is closed. Each frame it
// calls Update, then inside BeginDrawing steps loop (scene callbacks render here) and calls Draw
// for overlays. ESC is left to the console; the window closes from its close button.
func Run(w Window, loop *Loop, h Hooks) error {
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if w.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(int32(w.TargetFPS))

	if h.Init != nil {
		if err := h.Init(); err != nil {
			return err
		}
	}
	if h.Close != nil {
		defer h.Close()
	}
	for !rl.WindowShouldClose() {
		if h.Update != nil {
			h.Update()
		}
		rl.BeginDrawing()
		rl.ClearBackground(w.Background)
		loop.Step(time.Now())
		if h.Draw != nil {
			h.Draw()
		}
		rl.EndDrawing()
	}
	return nil
}
