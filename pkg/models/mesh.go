// Package models holds the indexed triangle mesh and the builders and
// importers that produce one.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/umbra/pkg/geom"
	"github.com/taigrr/umbra/pkg/math3d"
)

// Precondition faults reported by Validate.
var (
	ErrEmptyMesh          = errors.New("mesh has no triangles")
	ErrIndexOutOfRange    = errors.New("vertex index out of range")
	ErrDegenerateTriangle = errors.New("degenerate triangle")
)

// Mesh is a vertex buffer plus a triangle index buffer.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face
}

// Face is a triangle given by three indices into Mesh.Vertices. The order
// of V fixes the winding and therefore the sign of the normal.
type Face struct {
	V [3]int
}

// F is shorthand for a Face literal.
func F(a, b, c int) Face {
	return Face{V: [3]int{a, b, c}}
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([]Face, 0),
	}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle returns the three vertex positions of face i. An out-of-range i
// or a face holding an invalid index panics.
func (m *Mesh) Triangle(i int) (a, b, c math3d.Vec3) {
	f := m.Faces[i]
	return m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
}

// Area returns the area of face i.
func (m *Mesh) Area(i int) float64 {
	return geom.Area(m.Triangle(i))
}

// Bounds returns the axis-aligned bounding box of the vertices. An empty
// mesh yields two zero vectors.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	lo, hi := m.Bounds()
	return lo.Mid(hi)
}

// Size returns the extent of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:     m.Name,
		Vertices: make([]math3d.Vec3, len(m.Vertices)),
		Faces:    make([]Face, len(m.Faces)),
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}

// Transform returns a copy of the mesh with mat applied to every vertex.
func (m *Mesh) Transform(mat math3d.Mat4) *Mesh {
	out := m.Clone()
	for i, v := range out.Vertices {
		out.Vertices[i] = mat.MulVec3(v)
	}
	return out
}

// Validate checks the preconditions of the lighting and refinement
// engines: at least one face, every index in range, no degenerate face.
func (m *Mesh) Validate() error {
	if m == nil || len(m.Faces) == 0 {
		return ErrEmptyMesh
	}
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f.V {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face %d index %d (have %d vertices): %w", i, idx, n, ErrIndexOutOfRange)
			}
		}
		if geom.Degenerate(m.Triangle(i)) {
			return fmt.Errorf("face %d %v: %w", i, f.V, ErrDegenerateTriangle)
		}
	}
	return nil
}

// GetVertex returns the position of vertex i.
// Implements render.MeshRenderer.
func (m *Mesh) GetVertex(i int) math3d.Vec3 {
	return m.Vertices[i]
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetBounds returns the axis-aligned bounding box.
// Implements render.BoundedMeshRenderer.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.Bounds()
}
