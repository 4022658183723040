// Package geom implements the per-triangle geometry kernel: centroid, unit
// normal and area. All functions are pure and allocation free.
package geom

import "github.com/taigrr/umbra/pkg/math3d"

// Centroid returns the arithmetic mean of the three vertices.
func Centroid(a, b, c math3d.Vec3) math3d.Vec3 {
	return a.Add(b).Add(c).Div(3)
}

// Normal returns the unit normal (b-a)×(c-a) normalised. The winding of
// a, b, c fixes its sign. For a degenerate triangle the result has NaN
// components; callers validate meshes before reaching this point.
func Normal(a, b, c math3d.Vec3) math3d.Vec3 {
	n := cross(a, b, c)
	return n.Div(n.Len())
}

// Area returns the area of the triangle.
func Area(a, b, c math3d.Vec3) float64 {
	return cross(a, b, c).Len() * 0.5
}

// Degenerate reports whether the triangle has no usable normal: its edge
// cross product is zero or not finite.
func Degenerate(a, b, c math3d.Vec3) bool {
	n := cross(a, b, c)
	l := n.Len()
	return l == 0 || !n.IsFinite() || !n.Div(l).IsFinite()
}

func cross(a, b, c math3d.Vec3) math3d.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}
