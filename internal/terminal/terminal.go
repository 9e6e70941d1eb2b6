// Package terminal is the in-window console: a log pane above an input line that runs
// "cmd ..." lines through a command registry.
package terminal

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"showcase/internal/commands"
	"showcase/internal/logger"
)

const (
	barHeight = 40
	// windowedOffset lifts the bar clear of window decorations when not fullscreen.
	windowedOffset = 56
	prompt         = "> "
	fontSize       = 20
	padding        = 8
	visibleLines   = 14
	lineHeight     = fontSize + 4
	maxLineLen     = 200
)

var (
	barColor   = rl.NewColor(40, 40, 40, 255)
	edgeColor  = rl.NewColor(80, 80, 80, 255)
	paneColor  = rl.NewColor(24, 24, 24, 240)
	errorColor = rl.NewColor(255, 110, 110, 255)
	inputColor = rl.NewColor(140, 200, 255, 255)
)

// Terminal is toggled with ESC. While open it captures typing and the scene ignores the pointer.
type Terminal struct {
	log  *logger.Logger
	reg  *commands.Registry
	ed   Editor
	open bool
	font rl.Font
}

// New returns a closed terminal that logs to log and runs commands through reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

// IsOpen reports whether the terminal is visible and capturing input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// SetFont sets the console font. Zero texture ID = raylib default.
func (t *Terminal) SetFont(font rl.Font) {
	t.font = font
}

// Update reads the keyboard. Call once per frame.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = !t.open
	}
	if !t.open {
		return
	}
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	if ctrl && rl.IsKeyPressed(rl.KeyV) {
		t.ed.Insert(strings.ReplaceAll(rl.GetClipboardText(), "\n", " "))
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			t.ed.Insert(string(rune(c)))
		}
	}
	switch {
	case rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace):
		t.ed.Backspace()
	case rl.IsKeyPressed(rl.KeyUp):
		t.ed.Prev()
	case rl.IsKeyPressed(rl.KeyDown):
		t.ed.Next()
	case rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter):
		if line := t.ed.Enter(); line != "" {
			t.Submit(line)
		}
	}
}

// Submit logs line and runs it when it is a command. Errors are logged, never returned.
func (t *Terminal) Submit(line string) {
	t.log.Log(prompt + line)
	args, ok := commands.Parse(line)
	if !ok {
		t.log.Log(`not a command; try "cmd help"`)
		return
	}
	if err := t.reg.Execute(args); err != nil {
		t.log.Errorf("%v", err)
	}
}

// lineColor picks a colour from the level tag after the timestamp.
func lineColor(line string) rl.Color {
	_, rest, _ := strings.Cut(line, "] ")
	switch {
	case strings.HasPrefix(rest, "ERROR "):
		return errorColor
	case strings.HasPrefix(rest, prompt):
		return inputColor
	}
	return rl.LightGray
}

func (t *Terminal) text(s string, x, y int32, c rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), fontSize, 1, c)
		return
	}
	rl.DrawText(s, x, y, fontSize, c)
}

// Draw draws the log pane and the input bar at the bottom of the screen when open.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	barY := int32(rl.GetScreenHeight()) - barHeight
	if !rl.IsWindowFullscreen() {
		barY -= windowedOffset
	}

	paneH := int32(visibleLines * lineHeight)
	paneY := max(barY-paneH, 0)
	if paneH = barY - paneY; paneH > 0 {
		rl.DrawRectangle(0, paneY, screenW, paneH, paneColor)
	}
	lines := t.log.Lines()
	if len(lines) > visibleLines {
		lines = lines[len(lines)-visibleLines:]
	}
	for i, line := range lines {
		if len(line) > maxLineLen {
			line = line[:maxLineLen-3] + "..."
		}
		t.text(line, padding, paneY+int32(i)*lineHeight+padding, lineColor(line))
	}

	rl.DrawRectangle(0, barY, screenW, barHeight, barColor)
	rl.DrawRectangle(0, barY, screenW, 1, edgeColor)
	t.text(prompt+t.ed.Text()+"|", padding, barY+padding, rl.White)
}
