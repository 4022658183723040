// Package intersect tests line segments against triangles.
package intersect

import (
	"math"

	"github.com/taigrr/umbra/pkg/geom"
	"github.com/taigrr/umbra/pkg/math3d"
	"github.com/taigrr/umbra/pkg/models"
)

// Hit describes where a segment crosses a triangle. T is the segment
// parameter of Point, 0 at p1 and 1 at p2.
type Hit struct {
	Point math3d.Vec3
	T     float64
}

// SegmentTriangle reports whether the closed segment p1-p2 crosses the
// triangle abc. Points on an edge or vertex count as inside. A segment
// parallel to the triangle's plane, including one lying in it, never hits.
//
// The triangle must not be degenerate.
func SegmentTriangle(a, b, c, p1, p2 math3d.Vec3) (Hit, bool) {
	n := geom.Normal(a, b, c)
	d := p2.Sub(p1)

	den := n.Dot(d)
	if math.Abs(den) <= math3d.Epsilon {
		return Hit{}, false
	}

	t := n.Dot(a.Sub(p1)) / den
	if t < 0 || t > 1 {
		return Hit{}, false
	}

	p := p1.Add(d.Scale(t))
	if n.Dot(b.Sub(a).Cross(p.Sub(a))) < 0 ||
		n.Dot(c.Sub(b).Cross(p.Sub(b))) < 0 ||
		n.Dot(a.Sub(c).Cross(p.Sub(c))) < 0 {
		return Hit{}, false
	}
	return Hit{Point: p, T: t}, true
}

// FirstHit returns the face of m crossed by the segment closest to p1.
// Face skip is ignored; pass -1 to test every face.
func FirstHit(m *models.Mesh, p1, p2 math3d.Vec3, skip int) (int, Hit, bool) {
	best := -1
	var hit Hit
	for i := range m.Faces {
		if i == skip {
			continue
		}
		a, b, c := m.Triangle(i)
		h, ok := SegmentTriangle(a, b, c, p1, p2)
		if ok && (best < 0 || h.T < hit.T) {
			best, hit = i, h
		}
	}
	return best, hit, best >= 0
}
