package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lenia/kernels"
	"github.com/pthm-cable/lenia/patterns"
	"github.com/pthm-cable/lenia/renderer"
	"github.com/pthm-cable/lenia/settings"
)

var patternKeys = []int32{
	rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive,
	rl.KeySix, rl.KeySeven, rl.KeyEight, rl.KeyNine,
}

// handleInput processes keyboard and pointer input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	g.handleKeys()
	g.handlePointer()
}

// handleResize rebuilds the grid for the new window aspect.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth, g.screenHeight = w, h
	g.inspector.SetScreenSize(h)
	if err := g.sess.Resize(int(w), int(h)); err != nil {
		slog.Warn("window resize ignored", "error", err)
	}
}

func (g *Game) handleKeys() {
	s := g.sess
	p := s.Params()

	if rl.IsKeyPressed(rl.KeySpace) {
		if s.TogglePause() {
			g.notify("paused")
		} else {
			g.notify("running")
		}
	}
	if rl.IsKeyPressed(rl.KeyN) {
		if err := s.StepOnce(); err != nil {
			slog.Error("step failed", "error", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		s.Reseed(p.CurrentPattern)
	}

	ids := patterns.IDs()
	for i, key := range patternKeys {
		if i < len(ids) && rl.IsKeyPressed(key) {
			used := s.Reseed(string(ids[i]))
			g.notify("pattern: " + string(used))
		}
	}

	if rl.IsKeyPressed(rl.KeyK) {
		next := kernels.Next(kernels.ID(p.KernelType))
		g.notify("kernel: " + string(s.ChangeKernel(string(next))))
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.set(settings.KeyColorScheme, renderer.NextScheme(p.ColorScheme))
	}
	if rl.IsKeyPressed(rl.KeyB) {
		g.set(settings.KeyEnableBloom, !p.EnableBloom)
	}
	if rl.IsKeyPressed(rl.KeyD) {
		g.set(settings.KeyEnableDither, !p.EnableDither)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) && p.BrushSize > 1 {
		g.set(settings.KeyBrushSize, p.BrushSize-1)
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		g.set(settings.KeyBrushSize, p.BrushSize+1)
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		s.ResetToDefaults()
		g.notify("parameters reset to defaults")
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.params.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.showHUD = !g.showHUD
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		s.ResetView()
	}

	if rl.IsKeyPressed(rl.KeyE) {
		g.exportProfile()
	}
	if rl.IsKeyPressed(rl.KeyO) {
		g.importProfile()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.saveSnapshot()
	}
	if rl.IsKeyPressed(rl.KeyL) {
		g.loadSnapshot()
	}
}

// set applies a parameter change from a key binding.
func (g *Game) set(key string, value any) {
	if err := g.sess.SetParam(key, value); err != nil {
		slog.Warn("parameter rejected", "key", key, "error", err)
		return
	}
	g.notify(fmt.Sprintf("%s: %v", key, value))
}

// handlePointer maps mouse buttons onto draw and pan gestures. Left drags
// draw; middle drags, or left with Alt held, pan.
func (g *Game) handlePointer() {
	s := g.sess
	pos := rl.GetMousePosition()
	px, py := float64(pos.X), float64(pos.Y)
	cw, ch := int(g.screenWidth), int(g.screenHeight)

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		s.Wheel(px, py, float64(wheel), cw, ch)
	}

	if g.inspector.HandleInput(s, pos.X, pos.Y, cw, ch) {
		return
	}

	altDown := rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt)
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonMiddle):
		s.PointerDown(px, py, true, cw, ch)
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if b, shown := g.params.Bounds(g.screenWidth); shown && rl.CheckCollisionPointRec(pos, b) {
			return
		}
		s.PointerDown(px, py, altDown, cw, ch)
	}

	if s.Drawing() || s.Panning() {
		s.PointerMove(px, py, cw, ch)
	}

	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) || rl.IsMouseButtonReleased(rl.MouseButtonMiddle) {
		s.PointerUp()
	}
}
