package scene

import (
	"github.com/taigrr/umbra/pkg/math3d"
	"github.com/taigrr/umbra/pkg/models"
)

// AutoLight places a light off the model's far corner: three times the
// per-axis maximum of its bounds, mirrored across the XZ plane.
func AutoLight(m *models.Mesh) math3d.Vec3 {
	_, hi := m.Bounds()
	p := hi.Scale(3)
	p.Y = -p.Y
	return p
}

// AutoGround builds a ground rectangle at the model's lowest Z, extending
// margin bounding-box diagonals beyond the model on every side.
func AutoGround(m *models.Mesh, margin float64) *models.Mesh {
	lo, hi := m.Bounds()
	pad := hi.Sub(lo).Len() * margin

	p1 := math3d.V3(lo.X-pad, lo.Y-pad, lo.Z)
	p2 := math3d.V3(hi.X+pad, hi.Y+pad, lo.Z)
	return models.Ground(p1, p2)
}
