// Package render rasterises illumination fields over meshes into a
// framebuffer for PNG output or terminal display.
package render

import (
	"math"

	"github.com/taigrr/umbra/pkg/math3d"
)

// Rasterizer draws flat-coloured triangles with a depth buffer.
type Rasterizer struct {
	camera                 *Camera
	fb                     *Framebuffer
	zbuffer                []float64 // Depth buffer (1D array, row-major)
	DisableBackfaceCulling bool      // If true, render both sides of triangles
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera: camera,
		fb:     fb,
	}
	r.Resize()
	return r
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// getDepth returns the depth at (x, y).
func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// setDepth sets the depth at (x, y).
func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64 // Screen coordinates
	Z    float64 // Depth (for Z-buffer)
	W    float64
}

func (r *Rasterizer) project(viewProj math3d.Mat4, p math3d.Vec3) screenVertex {
	clip := viewProj.MulVec4(math3d.V4FromV3(p, 1))
	ndc := clip.PerspectiveDivide()
	return screenVertex{
		X: (ndc.X + 1) * 0.5 * float64(r.Width()),
		Y: (1 - ndc.Y) * 0.5 * float64(r.Height()), // Y flipped
		Z: ndc.Z,
		W: clip.W,
	}
}

// DrawTriangleFlat rasterizes a single triangle in one colour. Triangles
// wound counter-clockwise as seen from the camera are front facing.
// Triangles crossing behind the camera are skipped.
func (r *Rasterizer) DrawTriangleFlat(v0, v1, v2 math3d.Vec3, color Color) {
	viewProj := r.camera.ViewProjectionMatrix()
	sv := [3]screenVertex{
		r.project(viewProj, v0),
		r.project(viewProj, v1),
		r.project(viewProj, v2),
	}
	if sv[0].W <= 0 || sv[1].W <= 0 || sv[2].W <= 0 {
		return
	}

	// Screen Y points down, so counter-clockwise faces have negative area.
	cross := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if cross == 0 || (cross > 0 && !r.DisableBackfaceCulling) {
		return
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z >= r.getDepth(x, y) {
				continue
			}

			r.setDepth(x, y, z)
			r.fb.SetPixel(x, y, color)
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// MeshRenderer is the read-only view of a mesh the rasterizer needs.
// It keeps this package independent of the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) math3d.Vec3
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with a bounding box for framing.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// DrawMeshField renders mesh with transform applied, filling face i with
// colors[i]. Faces without a colour are drawn in ColorGray.
func (r *Rasterizer) DrawMeshField(mesh MeshRenderer, transform math3d.Mat4, colors []Color) {
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)

		v0 := transform.MulVec3(mesh.GetVertex(face[0]))
		v1 := transform.MulVec3(mesh.GetVertex(face[1]))
		v2 := transform.MulVec3(mesh.GetVertex(face[2]))

		c := ColorGray
		if i < len(colors) {
			c = colors[i]
		}
		r.DrawTriangleFlat(v0, v1, v2, c)
	}
}
