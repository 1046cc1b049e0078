package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lenia/settings"
)

func params(data any) settings.Params { return data.(settings.Params) }

// ParamSections describes the parameter panel.
var ParamSections = []SectionDescriptor{
	{
		Title: "Growth",
		Fields: []FieldDescriptor{
			{Label: "center", Widget: WidgetBar, Format: "%.3f", Range: FieldRange{0, 0.5},
				Value: func(d any) float64 { return params(d).GrowthCenter }},
			{Label: "width", Widget: WidgetBar, Format: "%.4f", Range: FieldRange{0, 0.1},
				Value: func(d any) float64 { return params(d).GrowthWidth }},
			{Label: "time scale", Widget: WidgetBar, Format: "%.2f", Range: FieldRange{0, 5},
				Value: func(d any) float64 { return params(d).TimeScale }},
		},
	},
	{
		Title: "Kernel",
		Fields: []FieldDescriptor{
			{Label: "type", Widget: WidgetText,
				Text: func(d any) string { return params(d).KernelType }},
			{Label: "radius", Widget: WidgetText, Format: "%.0f",
				Value: func(d any) float64 { return float64(params(d).KernelRadius) }},
			{Label: "grid size", Widget: WidgetText, Format: "%.0f",
				Value: func(d any) float64 { return float64(params(d).GridSize) }},
		},
	},
	{
		Title: "Render",
		Fields: []FieldDescriptor{
			{Label: "resolution", Widget: WidgetText, Format: "%.2fx",
				Value: func(d any) float64 { return params(d).ResolutionFactor }},
			{Label: "dither", Widget: WidgetToggle,
				On: func(d any) bool { return params(d).EnableDither }},
			{Label: "bloom", Widget: WidgetToggle,
				On: func(d any) bool { return params(d).EnableBloom }},
			{Label: "bloom amount", Widget: WidgetBar, Format: "%.2f", Range: FieldRange{0, 2},
				Value: func(d any) float64 { return params(d).BloomIntensity }},
		},
	},
	{
		Title: "Brush",
		Fields: []FieldDescriptor{
			{Label: "size", Widget: WidgetText, Format: "%.0f",
				Value: func(d any) float64 { return float64(params(d).BrushSize) }},
			{Label: "intensity", Widget: WidgetBar, Format: "%.2f", Range: FieldRange{0, 1},
				Value: func(d any) float64 { return params(d).BrushIntensity }},
		},
	},
}

// ParamsPanel shows the live parameter values on the right of the screen.
type ParamsPanel struct {
	renderer *Renderer
	width    int32
	visible  bool
}

// NewParamsPanel creates a hidden panel of the given width.
func NewParamsPanel(width int32) *ParamsPanel {
	return &ParamsPanel{renderer: NewRenderer(), width: width}
}

// Toggle switches panel visibility and returns the new state.
func (p *ParamsPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Bounds returns the panel rectangle for a screen width, and whether it is shown.
func (p *ParamsPanel) Bounds(screenWidth int32) (rl.Rectangle, bool) {
	h := p.renderer.Theme.Padding*2 + p.renderer.Theme.LineHeight + 4
	for _, sd := range ParamSections {
		h += p.renderer.SectionHeight(sd)
	}
	r := rl.Rectangle{
		X:      float32(screenWidth - p.width - 10),
		Y:      10,
		Width:  float32(p.width),
		Height: float32(h),
	}
	return r, p.visible
}

// Draw renders the panel when visible.
func (p *ParamsPanel) Draw(screenWidth int32, params settings.Params) {
	b, ok := p.Bounds(screenWidth)
	if !ok {
		return
	}
	r := p.renderer
	x, y := int32(b.X), int32(b.Y)
	r.DrawPanel(x, y, p.width, int32(b.Height))

	x += r.Theme.Padding
	y += r.Theme.Padding
	rl.DrawText("Parameters", x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	inner := p.width - 2*r.Theme.Padding
	for _, sd := range ParamSections {
		y = r.DrawSection(x, y, sd, params, inner)
	}
}
