// Package ui draws the heads-up display and the parameter panel on top of
// the field. Panels are described by field descriptors so new parameters
// only need a descriptor entry.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field is drawn.
type WidgetType int

const (
	WidgetText    WidgetType = iota // label and formatted value
	WidgetBar                       // value within Range as a bar
	WidgetToggle                    // on/off indicator
	WidgetSpacer                    // vertical gap
)

// FieldRange is the value range for bar widgets.
type FieldRange struct {
	Min, Max float64
}

// FieldDescriptor defines how to display one value.
type FieldDescriptor struct {
	Label  string
	Widget WidgetType
	Format string // printf format for WidgetText and the bar's value text
	Range  FieldRange
	Value  func(any) float64
	Text   func(any) string // overrides Format for WidgetText when set
	On     func(any) bool   // WidgetToggle state
}

// SectionDescriptor groups fields under a header.
type SectionDescriptor struct {
	Title  string
	Fields []FieldDescriptor
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	ToggleOn       rl.Color
	ToggleOff      rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 180, B: 120, A: 255},
		ToggleOn:       rl.Color{R: 100, G: 200, B: 100, A: 255},
		ToggleOff:      rl.Color{R: 90, G: 90, B: 90, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     96,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
