// Package game is the raylib front end: it owns the window-side state
// (texture, HUD, panels) and drives a session once per frame.
package game

import (
	"image"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lenia/inspector"
	"github.com/pthm-cable/lenia/session"
	"github.com/pthm-cable/lenia/ui"
)

const controlsText = "LMB draw | MMB/Alt+LMB pan | Wheel zoom | Space pause | N step | R reseed | 1-9 pattern | " +
	"RMB inspect | K kernel | C colors | B bloom | D dither | [ ] brush | Tab params | E/O export/import | S/L snapshot | F11 fullscreen"

// messageDuration is how long status messages stay on screen.
const messageDuration = 3 * time.Second

// Game wires raylib input and drawing to a session.
type Game struct {
	sess *session.Session

	tex *fieldTexture
	img *image.RGBA

	hud       *ui.HUD
	params    *ui.ParamsPanel
	perfPanel *ui.PerfPanel
	inspector *inspector.Inspector
	showHUD   bool
	showPerf  bool

	screenWidth, screenHeight int32

	message      string
	messageUntil time.Time
}

// NewGame creates the front end for sess. The raylib window must already be
// open.
func NewGame(sess *session.Session) *Game {
	g := &Game{
		sess:         sess,
		tex:          &fieldTexture{},
		hud:          ui.NewHUD(),
		params:       ui.NewParamsPanel(260),
		perfPanel:    ui.NewPerfPanel(10, 200),
		showHUD:      true,
		screenWidth:  int32(rl.GetScreenWidth()),
		screenHeight: int32(rl.GetScreenHeight()),
	}
	g.inspector = inspector.NewInspector(g.screenHeight)
	if err := sess.Resize(int(g.screenWidth), int(g.screenHeight)); err != nil {
		slog.Warn("initial resize failed", "error", err)
	}
	return g
}

// Update handles input and advances the simulation by one frame.
func (g *Game) Update() {
	g.handleInput()
	if err := g.sess.Frame(); err != nil {
		slog.Error("frame failed", "error", err)
		g.notify("step failed: " + err.Error())
	}
}

// Draw renders the field and overlays.
func (g *Game) Draw() {
	w, h := g.sess.RenderSize(int(g.screenWidth), int(g.screenHeight))
	if g.img == nil || g.img.Rect.Dx() != w || g.img.Rect.Dy() != h {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	g.sess.Render(g.img)
	g.tex.Upload(g.img)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	g.tex.Draw(float32(g.screenWidth), float32(g.screenHeight))

	if g.showHUD {
		g.drawHUD()
	}
	g.params.Draw(g.screenWidth, g.sess.Params())
	g.inspector.Draw(g.sess, int(g.screenWidth), int(g.screenHeight))

	rl.EndDrawing()
	g.sess.RecordPresent()
}

func (g *Game) drawHUD() {
	st := g.sess.Status(rl.GetFPS())
	if time.Now().Before(g.messageUntil) {
		st.Message = g.message
	}
	g.hud.Draw(st, g.sess.MassHistory())
	if g.showPerf {
		g.perfPanel.Draw(g.sess.PerfStats())
	}
	g.hud.DrawControls(g.screenHeight, controlsText)
}

// notify shows msg in the HUD for a few seconds.
func (g *Game) notify(msg string) {
	g.message = msg
	g.messageUntil = time.Now().Add(messageDuration)
}

// Unload frees GPU resources.
func (g *Game) Unload() {
	g.tex.Unload()
}
