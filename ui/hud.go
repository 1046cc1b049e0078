package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lenia/session"
	"github.com/pthm-cable/lenia/telemetry"
)

// HUD renders the status lines and the mass chart.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data session.Status, massHistory []float64) {
	rl.DrawText("Lenia", 10, 10, 20, rl.White)
	y := int32(35)
	for _, line := range data.Lines() {
		c := rl.LightGray
		if line == "PAUSED" {
			c = rl.Yellow
		}
		rl.DrawText(line, 10, y, 16, c)
		y += 20
	}
	if len(massHistory) > 1 {
		h.renderer.DrawSparkline(10, y+4, 220, 40, massHistory, rl.SkyBlue)
		y += 48
	}
	if data.Message != "" {
		rl.DrawText(data.Message, 10, y+4, 14, rl.Orange)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-22, 14, rl.Gray)
}

// PerfPanel shows where frame time goes.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

var perfPhases = []string{telemetry.PhaseMerge, telemetry.PhaseStep, telemetry.PhaseRender, telemetry.PhaseTelemetry}

// Draw renders per-phase averages and shares of the frame.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y
	rl.DrawText("Frame Time", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("avg %s (max %s)", stats.AvgFrame.Round(time.Microsecond), stats.MaxFrame.Round(time.Microsecond)),
		x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range perfPhases {
		pct := stats.PhasePct[phase]
		c := rl.LightGray
		if pct > 60 {
			c = rl.Red
		} else if pct > 30 {
			c = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct), x, y, 12, c)
		y += 14
	}
}
