// Kernel preview tool: plots a kernel's radial profile and its compiled tap
// table, with sliders for radius and profile angle.
//
// Usage: go run ./cmd/kernelpreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lenia/kernels"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	texSize      = 2*kernels.MaxRadius + 1
	profileSteps = 200
)

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Kernel Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	defs := kernels.All()
	kernelIdx := 0
	radius := float32(13)
	theta := float32(0)

	img := rl.GenImageColor(texSize, texSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var prog kernels.Program
	needsCompile := true

	for !rl.WindowShouldClose() {
		if needsCompile {
			prog, _ = kernels.Compile(defs[kernelIdx].ID, int(radius))
			rl.UpdateTexture(texture, tapPixels(prog))
			needsCompile = false
		}
		def := defs[kernelIdx]

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Tap table, centred; the texture always spans MaxRadius.
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: texSize, Height: texSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Taps: %d  Total weight: %.2f", len(prog.Taps), prog.TotalWeight()), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(def.Description, 15, statsY+22, 14, rl.Gray)
		rl.DrawText("Green = positive, red = negative weight", 15, statsY+42, 12, rl.LightGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText(def.Name, int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 30

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 28}, "< Prev") {
			kernelIdx = (kernelIdx + len(defs) - 1) % len(defs)
			needsCompile = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 28}, "Next >") {
			kernelIdx = (kernelIdx + 1) % len(defs)
			needsCompile = true
		}
		panelY += 45

		rl.DrawText("Radius (cells)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRadius := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", fmt.Sprint(kernels.MaxRadius),
			radius, 1, kernels.MaxRadius,
		)
		rl.DrawText(fmt.Sprintf("%d", int(radius)), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newRadius) != int(radius) {
			radius = float32(int(newRadius))
			needsCompile = true
		}
		panelY += 35

		rl.DrawText("Profile angle (directional kernels)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		theta = gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"-pi", "pi",
			theta, -math.Pi, math.Pi,
		)
		rl.DrawText(fmt.Sprintf("%.2f", theta), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		panelY += 40

		rl.DrawText("Radial profile w(d)", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		drawProfile(def, float64(theta), rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 20), Height: 220})
		panelY += 240

		rl.DrawText("Settings:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		snippet := settingsSnippet(def.ID, int(radius))
		rl.DrawText(snippet, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy settings to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}
		if rl.IsKeyPressed(rl.KeyRight) {
			kernelIdx = kernelIndex(defs, kernels.Next(def.ID))
			needsCompile = true
		}

		rl.EndDrawing()
	}
}

func kernelIndex(defs []kernels.Definition, id kernels.ID) int {
	for i, d := range defs {
		if d.ID == id {
			return i
		}
	}
	return 0
}

func settingsSnippet(id kernels.ID, radius int) string {
	return fmt.Sprintf("kernelType: %s\nkernelRadius: %d", id, radius)
}

// drawProfile plots the weight over d in [0, 1] along direction theta.
func drawProfile(def kernels.Definition, theta float64, box rl.Rectangle) {
	rl.DrawRectangleLinesEx(box, 1, rl.LightGray)

	ws := make([]float64, profileSteps+1)
	lo, hi := 0.0, 0.0
	for i := range ws {
		ws[i] = def.Weight(float64(i)/profileSteps, theta)
		lo = min(lo, ws[i])
		hi = max(hi, ws[i])
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	py := func(w float64) float32 {
		return box.Y + box.Height - 4 - float32((w-lo)/span)*(box.Height-8)
	}

	zero := py(0)
	rl.DrawLineV(rl.Vector2{X: box.X, Y: zero}, rl.Vector2{X: box.X + box.Width, Y: zero}, rl.Gray)
	step := box.Width / profileSteps
	for i := 1; i < len(ws); i++ {
		rl.DrawLineV(
			rl.Vector2{X: box.X + step*float32(i-1), Y: py(ws[i-1])},
			rl.Vector2{X: box.X + step*float32(i), Y: py(ws[i])},
			rl.DarkBlue,
		)
	}
	rl.DrawText(fmt.Sprintf("max %.2f", hi), int32(box.X)+4, int32(box.Y)+4, 12, rl.Gray)
	rl.DrawText(fmt.Sprintf("min %.2f", lo), int32(box.X)+4, int32(box.Y+box.Height)-16, 12, rl.Gray)
}

// tapPixels draws the tap table into a texSize×texSize image centred on the
// origin, scaled by the largest absolute weight.
func tapPixels(prog kernels.Program) []color.RGBA {
	pixels := make([]color.RGBA, texSize*texSize)
	for i := range pixels {
		pixels[i] = color.RGBA{R: 16, G: 16, B: 24, A: 255}
	}
	var peak float32
	for _, t := range prog.Taps {
		peak = max(peak, float32(math.Abs(float64(t.W))))
	}
	if peak == 0 {
		return pixels
	}
	c := kernels.MaxRadius
	for _, t := range prog.Taps {
		v := uint8(math.Round(float64(min(float32(math.Abs(float64(t.W)))/peak, 1)) * 255))
		px := color.RGBA{G: v, A: 255}
		if t.W < 0 {
			px = color.RGBA{R: v, A: 255}
		}
		pixels[(t.DY+c)*texSize+t.DX+c] = px
	}
	return pixels
}
