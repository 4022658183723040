package render

import (
	"github.com/taigrr/umbra/pkg/math3d"
)

// Wireframe draws lines over a rendered frame without depth testing.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D draws a line in 3D space. Lines with an endpoint outside the
// view are skipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, _, vis1 := w.camera.WorldToScreen(p1, w.fb.Width, w.fb.Height)
	x2, y2, _, vis2 := w.camera.WorldToScreen(p2, w.fb.Width, w.fb.Height)
	if !vis1 || !vis2 {
		return
	}
	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// DrawMeshEdges outlines every face of mesh after applying transform.
// Shared edges are drawn once per face.
func (w *Wireframe) DrawMeshEdges(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		v0 := transform.MulVec3(mesh.GetVertex(f[0]))
		v1 := transform.MulVec3(mesh.GetVertex(f[1]))
		v2 := transform.MulVec3(mesh.GetVertex(f[2]))

		w.DrawLine3D(v0, v1, color)
		w.DrawLine3D(v1, v2, color)
		w.DrawLine3D(v2, v0, color)
	}
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, color Color) {
	halfSize := size / 2
	w.DrawLine3D(
		math3d.V3(pos.X-halfSize, pos.Y, pos.Z),
		math3d.V3(pos.X+halfSize, pos.Y, pos.Z),
		color,
	)
	w.DrawLine3D(
		math3d.V3(pos.X, pos.Y-halfSize, pos.Z),
		math3d.V3(pos.X, pos.Y+halfSize, pos.Z),
		color,
	)
	w.DrawLine3D(
		math3d.V3(pos.X, pos.Y, pos.Z-halfSize),
		math3d.V3(pos.X, pos.Y, pos.Z+halfSize),
		color,
	)
}
