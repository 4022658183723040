package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// Framebuffer is a pixel grid backed by an image.RGBA, written to a PNG or
// drawn to the terminal two pixels per cell.
type Framebuffer struct {
	Width  int
	Height int // twice the terminal rows when drawn with half-blocks

	img *image.RGBA
}

// NewFramebuffer creates a framebuffer of width x height pixels.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Clear fills the framebuffer with c.
func (fb *Framebuffer) Clear(c color.RGBA) {
	draw.Draw(fb.img, fb.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// SetPixel sets (x, y) to c. Pixels outside the framebuffer are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	fb.img.SetRGBA(x, y, c)
}

// GetPixel returns the colour at (x, y), or transparent black outside the
// framebuffer.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	return fb.img.RGBAAt(x, y)
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// DrawColorbar draws a vertical legend for cm inside rect: 1 at the top,
// 0 at the bottom, with a one-pixel frame.
func (fb *Framebuffer) DrawColorbar(cm Colormap, rect image.Rectangle) {
	rect = rect.Intersect(fb.img.Bounds())
	if rect.Dx() < 3 || rect.Dy() < 3 {
		return
	}
	inner := rect.Inset(1)
	for y := inner.Min.Y; y < inner.Max.Y; y++ {
		v := 1 - float64(y-inner.Min.Y)/float64(max(inner.Dy()-1, 1))
		draw.Draw(fb.img, image.Rect(inner.Min.X, y, inner.Max.X, y+1), image.NewUniform(cm.At(v)), image.Point{}, draw.Src)
	}

	x0, y0, x1, y1 := rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1
	fb.DrawLine(x0, y0, x1, y0, ColorWhite)
	fb.DrawLine(x1, y0, x1, y1, ColorWhite)
	fb.DrawLine(x1, y1, x0, y1, ColorWhite)
	fb.DrawLine(x0, y1, x0, y0, ColorWhite)
}

// Image returns the pixels as an image. It shares memory with fb.
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, fb.img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
