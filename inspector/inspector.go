// Package inspector shows the state of a single selected cell: its value,
// the kernel potential around it and the update the next step will apply.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lenia/session"
)

// Panel dimensions
const (
	PanelWidth   = 240
	PanelHeight  = 176
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorLabel       = rl.Color{R: 200, G: 200, B: 220, A: 255}
	ColorGrow        = rl.Color{R: 100, G: 200, B: 120, A: 255}
	ColorShrink      = rl.Color{R: 220, G: 100, B: 90, A: 255}
	ColorMarker      = rl.Color{R: 255, G: 200, B: 40, A: 255}
)

// Inspector tracks the selected cell and draws its panel.
type Inspector struct {
	x, y        int
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector places the panel in the bottom-left corner.
func NewInspector(screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.SetScreenSize(screenHeight)
	return ins
}

// SetScreenSize re-anchors the panel after a window resize.
func (ins *Inspector) SetScreenSize(screenHeight int32) {
	ins.panelX = 10
	ins.panelY = screenHeight - PanelHeight - 40
}

// HandleInput selects the cell under a right click. Right-clicking the
// selected cell again, or the close button, clears the selection. It
// reports whether the click was consumed.
func (ins *Inspector) HandleInput(sess *session.Session, mouseX, mouseY float32, screenW, screenH int) bool {
	if ins.hasSelected && rl.IsMouseButtonPressed(rl.MouseButtonLeft) && ins.overClose(mouseX, mouseY) {
		ins.Deselect()
		return true
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		return false
	}
	x, y, ok := sess.CellAt(float64(mouseX), float64(mouseY), screenW, screenH)
	if !ok {
		return false
	}
	if ins.hasSelected && x == ins.x && y == ins.y {
		ins.Deselect()
		return true
	}
	ins.x, ins.y, ins.hasSelected = x, y, true
	return true
}

func (ins *Inspector) overClose(mouseX, mouseY float32) bool {
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	return int32(mouseX) >= closeX && int32(mouseX) <= closeX+20 &&
		int32(mouseY) >= closeY && int32(mouseY) <= closeY+20
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the selected cell.
func (ins *Inspector) Selected() (x, y int, ok bool) {
	return ins.x, ins.y, ins.hasSelected
}

// Draw marks the selected cell and renders the panel. A selection that fell
// off the grid after a resize is dropped.
func (ins *Inspector) Draw(sess *session.Session, screenW, screenH int) {
	if !ins.hasSelected {
		return
	}
	p, ok := sess.Probe(ins.x, ins.y)
	if !ok {
		ins.Deselect()
		return
	}

	ins.drawMarker(sess, screenW, screenH)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, PanelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: PanelHeight},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("CELL", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding

	rl.DrawText(fmt.Sprintf("Position: (%d, %d)", p.X, p.Y), x, y, 14, ColorHeaderText)
	y += 22
	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	y += 8

	row := func(label, value string, c rl.Color) {
		rl.DrawText(label, x, y, 14, ColorLabel)
		rl.DrawText(value, x+110, y, 14, c)
		y += 18
	}
	row("Value", fmt.Sprintf("%.4f", p.Value), ColorHeaderText)
	row("Potential", fmt.Sprintf("%.4f", p.Potential), ColorHeaderText)

	gc := ColorGrow
	if p.Growth < 0 {
		gc = ColorShrink
	}
	row("Growth", fmt.Sprintf("%+.4f", p.Growth), gc)
	row("Next", fmt.Sprintf("%.4f", p.Next), ColorHeaderText)

	// Value bar
	y += 4
	barW := int32(PanelWidth - 2*PanelPadding)
	rl.DrawRectangle(x, y, barW, 8, ColorPanelHeader)
	rl.DrawRectangle(x, y, int32(float32(barW)*p.Value), 8, gc)
}

// drawMarker outlines the selected cell at its on-screen position.
func (ins *Inspector) drawMarker(sess *session.Session, screenW, screenH int) {
	w, h := sess.Size()
	vp := sess.Viewport()
	sx, sy := vp.SimToScreen(float64(ins.x)/float64(w), float64(ins.y)/float64(h))
	cw := float32(float64(screenW) / float64(w) * vp.Zoom)
	ch := float32(float64(screenH) / float64(h) * vp.Zoom)
	rect := rl.Rectangle{
		X:      float32(sx*float64(screenW)) - 1,
		Y:      float32(sy*float64(screenH)) - 1,
		Width:  max(cw, 3) + 2,
		Height: max(ch, 3) + 2,
	}
	rl.DrawRectangleLinesEx(rect, 1, ColorMarker)
}
