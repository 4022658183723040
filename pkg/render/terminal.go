package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < r.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(r.GetPixel(col, topY)),
					Bg: rgbaToColor(r.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Display is a screen that can push drawn cells to the terminal.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalRenderer draws framebuffers onto a terminal screen.
type TerminalRenderer struct {
	scr           Display
	width, height int // terminal cells
}

// NewTerminalRenderer creates a renderer for a screen of width x height
// cells.
func NewTerminalRenderer(scr Display, width, height int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, width: width, height: height}
}

// FramebufferSize returns the framebuffer dimensions that fill the screen.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.width, t.height * 2
}

// Render draws fb over the whole screen.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.scr, uv.Rectangle(image.Rect(0, 0, t.width, t.height)))
}

// Flush displays the drawn cells.
func (t *TerminalRenderer) Flush() error {
	return t.scr.Display()
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack      = color.RGBA{0, 0, 0, 255}
	ColorWhite      = color.RGBA{255, 255, 255, 255}
	ColorRed        = color.RGBA{255, 0, 0, 255}
	ColorGreen      = color.RGBA{0, 255, 0, 255}
	ColorBlue       = color.RGBA{0, 0, 255, 255}
	ColorYellow     = color.RGBA{255, 255, 0, 255}
	ColorGray       = color.RGBA{128, 128, 128, 255}
	ColorBackground = color.RGBA{30, 30, 40, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
