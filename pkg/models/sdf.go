package models

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/taigrr/umbra/pkg/math3d"
)

// DefaultSDFCells is the marching cubes resolution along the longest axis.
const DefaultSDFCells = 24

// SDFBox creates a box with its minimum corner at the origin.
func SDFBox(size math3d.Vec3) (sdf.SDF3, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, 0)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2})
	return sdf.Transform3D(s, m), nil
}

// SDFSphere creates a sphere centered on the origin.
func SDFSphere(radius float64) (sdf.SDF3, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return s, nil
}

// SDFCylinder creates a Z-aligned cylinder centered on the origin.
func SDFCylinder(height, radius float64) (sdf.SDF3, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return s, nil
}

// SDFTranslate moves a solid by offset.
func SDFTranslate(s sdf.SDF3, offset math3d.Vec3) sdf.SDF3 {
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: offset.X, Y: offset.Y, Z: offset.Z}))
}

// FromSDF polygonises a solid with uniform marching cubes and welds the
// resulting soup. cells <= 0 selects DefaultSDFCells.
func FromSDF(name string, s sdf.SDF3, cells int) *Mesh {
	if cells <= 0 {
		cells = DefaultSDFCells
	}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	soup := make([][3]math3d.Vec3, 0, len(triangles))
	for _, tri := range triangles {
		var t [3]math3d.Vec3
		for j := range 3 {
			v := tri[j]
			t[j] = math3d.V3(v.X, v.Y, v.Z)
		}
		soup = append(soup, t)
	}
	return Weld(name, soup)
}
