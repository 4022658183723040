package models

import "github.com/taigrr/umbra/pkg/math3d"

// Pyramid creates a square-based pyramid with its base corner at the
// origin, base side b and apex height h along +Z. All faces wind outward.
func Pyramid(b, h float64) *Mesh {
	m := NewMesh("pyramid")
	m.Vertices = []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(b, 0, 0),
		math3d.V3(b, b, 0),
		math3d.V3(0, b, 0),
		math3d.V3(b/2, b/2, h),
	}
	m.Faces = []Face{
		F(0, 2, 1),
		F(0, 3, 2),
		F(4, 0, 1),
		F(4, 1, 2),
		F(4, 2, 3),
		F(4, 3, 0),
	}
	return m
}

// Ground creates a horizontal rectangle from two opposite corners. The
// rectangle lies at p1.Z and faces +Z when p2 is up and to the right of p1.
func Ground(p1, p2 math3d.Vec3) *Mesh {
	m := NewMesh("ground")
	m.Vertices = []math3d.Vec3{
		p1,
		math3d.V3(p2.X, p1.Y, p1.Z),
		math3d.V3(p2.X, p2.Y, p1.Z),
		math3d.V3(p1.X, p2.Y, p1.Z),
	}
	m.Faces = []Face{
		F(0, 1, 2),
		F(0, 2, 3),
	}
	return m
}

// Concat merges meshes into a new one. Faces of each later mesh are
// shifted by the number of vertices that precede it.
func Concat(name string, meshes ...*Mesh) *Mesh {
	out := NewMesh(name)
	for _, m := range meshes {
		base := len(out.Vertices)
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, f := range m.Faces {
			out.Faces = append(out.Faces, F(f.V[0]+base, f.V[1]+base, f.V[2]+base))
		}
	}
	return out
}
