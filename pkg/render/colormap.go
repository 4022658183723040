package render

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"
)

// Colormap maps a scalar in [0, 1] to a colour by blending between stops.
type Colormap struct {
	Name  string
	stops []colorStop
}

type colorStop struct {
	pos   float64
	color colorful.Color
}

var (
	// Hot runs black, red, yellow, white.
	Hot = Colormap{Name: "hot", stops: []colorStop{
		{0, colorful.Color{R: 0.0416, G: 0, B: 0}},
		{0.365, colorful.Color{R: 1, G: 0, B: 0}},
		{0.746, colorful.Color{R: 1, G: 1, B: 0}},
		{1, colorful.Color{R: 1, G: 1, B: 1}},
	}}

	// Gray runs black to white.
	Gray = Colormap{Name: "gray", stops: []colorStop{
		{0, colorful.Color{R: 0, G: 0, B: 0}},
		{1, colorful.Color{R: 1, G: 1, B: 1}},
	}}
)

// ColormapByName returns the colour map called name.
func ColormapByName(name string) (Colormap, error) {
	switch name {
	case Hot.Name, "":
		return Hot, nil
	case Gray.Name:
		return Gray, nil
	}
	return Colormap{}, fmt.Errorf("unknown colormap %q", name)
}

// At returns the colour for v. Values outside [0, 1] are clamped and NaN
// maps to 0.
func (cm Colormap) At(v float64) Color {
	if math.IsNaN(v) {
		v = 0
	}
	v = math.Max(0, math.Min(1, v))

	for i := 1; i < len(cm.stops); i++ {
		a, b := cm.stops[i-1], cm.stops[i]
		if v <= b.pos {
			t := (v - a.pos) / (b.pos - a.pos)
			return fromColorful(a.color.BlendRgb(b.color, t))
		}
	}
	return fromColorful(cm.stops[len(cm.stops)-1].color)
}

// Field maps every value of field to a colour.
func (cm Colormap) Field(field []float64) []Color {
	return lo.Map(field, func(v float64, _ int) Color {
		return cm.At(v)
	})
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}
