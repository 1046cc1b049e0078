package session

import (
	"github.com/pthm-cable/lenia/interaction"
)

func (s *Session) brush() interaction.Brush {
	return interaction.Brush{Size: s.p.BrushSize, Intensity: s.p.BrushIntensity}
}

// PointerDown starts painting, or a pan drag when pan is set, at pixel
// (px, py) of a canvasW×canvasH display.
func (s *Session) PointerDown(px, py float64, pan bool, canvasW, canvasH int) {
	mode := interaction.ModeDraw
	if pan {
		mode = interaction.ModePan
	}
	s.painter.PointerDown(px, py, mode, canvas(canvasW, canvasH), s.engine.Overlay(), s.brush())
}

// PointerMove continues the active stroke or drag.
func (s *Session) PointerMove(px, py float64, canvasW, canvasH int) {
	s.painter.PointerMove(px, py, canvas(canvasW, canvasH), s.engine.Overlay(), s.brush())
}

// PointerUp ends the active stroke or drag.
func (s *Session) PointerUp() { s.painter.PointerUp() }

// Wheel zooms around the pointer by notches (positive zooms in).
func (s *Session) Wheel(px, py, notches float64, canvasW, canvasH int) {
	s.painter.Wheel(px, py, notches, canvas(canvasW, canvasH))
}

// Drawing reports whether a paint stroke is active.
func (s *Session) Drawing() bool { return s.painter.Drawing() }

// Panning reports whether a pan drag is active.
func (s *Session) Panning() bool { return s.painter.Panning() }

// ResetView restores zoom 1 and no pan.
func (s *Session) ResetView() { s.viewport.Reset() }

func canvas(w, h int) interaction.Canvas {
	return interaction.Canvas{W: float64(w), H: float64(h)}
}
