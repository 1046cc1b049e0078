package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws value within rng as a bar followed by its text.
func (r *Renderer) DrawBar(x, y int32, label string, value float64, rng FieldRange, format string, width int32) int32 {
	frac := 0.0
	if rng.Max > rng.Min {
		frac = min(max((value-rng.Min)/(rng.Max-rng.Min), 0), 1)
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 56

	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float64(barWidth)*frac), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(fmt.Sprintf(format, value), barX+barWidth+6, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawToggle draws an on/off indicator.
func (r *Renderer) DrawToggle(x, y int32, label string, on bool) int32 {
	c, text := r.Theme.ToggleOff, "off"
	if on {
		c, text = r.Theme.ToggleOn, "on"
	}
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 10, 10, c)
	rl.DrawText(text, x+r.Theme.LabelWidth+16, y, r.Theme.FontSize, c)
	return y + r.Theme.LineHeight
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		return r.DrawLabelValue(x, y, fd.Label, fieldText(fd, data))
	case WidgetBar:
		var v float64
		if fd.Value != nil {
			v = fd.Value(data)
		}
		return r.DrawBar(x, y, fd.Label, v, fd.Range, fd.Format, width)
	case WidgetToggle:
		return r.DrawToggle(x, y, fd.Label, fd.On != nil && fd.On(data))
	case WidgetSpacer:
		return y + 6
	}
	return y
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + 4
}

// DrawSparkline plots values left to right inside the given box, scaled to
// their own min and max.
func (r *Renderer) DrawSparkline(x, y, width, height int32, values []float64, c rl.Color) {
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
	if len(values) < 2 {
		return
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	step := float32(width-2) / float32(len(values)-1)
	py := func(v float64) float32 {
		return float32(y+height-1) - float32((v-lo)/span)*float32(height-2)
	}
	for i := 1; i < len(values); i++ {
		rl.DrawLineV(
			rl.Vector2{X: float32(x+1) + step*float32(i-1), Y: py(values[i-1])},
			rl.Vector2{X: float32(x+1) + step*float32(i), Y: py(values[i])},
			c,
		)
	}
}

// SectionHeight is the pixel height DrawSection will use.
func (r *Renderer) SectionHeight(sd SectionDescriptor) int32 {
	h := int32(4)
	if sd.Title != "" {
		h += r.Theme.LineHeight + 2
	}
	for _, fd := range sd.Fields {
		switch fd.Widget {
		case WidgetBar:
			h += r.Theme.LineHeight + 2
		case WidgetSpacer:
			h += 6
		default:
			h += r.Theme.LineHeight
		}
	}
	return h
}

func fieldText(fd FieldDescriptor, data any) string {
	if fd.Text != nil {
		return fd.Text(data)
	}
	if fd.Value != nil {
		return fmt.Sprintf(fd.Format, fd.Value(data))
	}
	return ""
}
