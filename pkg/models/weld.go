package models

import (
	"github.com/samber/lo"
	"github.com/taigrr/umbra/pkg/geom"
	"github.com/taigrr/umbra/pkg/math3d"
)

// Weld turns triangle soup into an indexed mesh. Vertices with identical
// coordinates are merged, keeping first-seen order. Triangles that collapse
// onto a repeated index or have no area are dropped, so the result always
// passes Validate unless it is empty.
func Weld(name string, soup [][3]math3d.Vec3) *Mesh {
	m := NewMesh(name)
	index := make(map[math3d.Vec3]int, len(soup))

	lookup := func(v math3d.Vec3) int {
		if i, ok := index[v]; ok {
			return i
		}
		i := len(m.Vertices)
		index[v] = i
		m.Vertices = append(m.Vertices, v)
		return i
	}

	for _, tri := range soup {
		f := F(lookup(tri[0]), lookup(tri[1]), lookup(tri[2]))
		if len(lo.Uniq(f.V[:])) < 3 {
			continue
		}
		if geom.Degenerate(tri[0], tri[1], tri[2]) {
			continue
		}
		m.Faces = append(m.Faces, f)
	}

	return m
}

// Soup expands an indexed mesh back into independent triangles.
func (m *Mesh) Soup() [][3]math3d.Vec3 {
	return lo.Map(m.Faces, func(_ Face, i int) [3]math3d.Vec3 {
		a, b, c := m.Triangle(i)
		return [3]math3d.Vec3{a, b, c}
	})
}
