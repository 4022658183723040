package models

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/taigrr/umbra/pkg/math3d"
)

// meshJSON is the on-disk layout written by WriteJSON.
type meshJSON struct {
	Name      string       `json:"name,omitempty"`
	Vertices  [][3]float64 `json:"vertices"`
	Triangles [][3]int     `json:"triangles"`
	Field     []float64    `json:"field,omitempty"`
}

// WriteJSON encodes the mesh and an optional per-face field.
func WriteJSON(w io.Writer, m *Mesh, field []float64) error {
	if field != nil && len(field) != len(m.Faces) {
		return fmt.Errorf("field has %d values for %d faces", len(field), len(m.Faces))
	}
	out := meshJSON{
		Name:      m.Name,
		Vertices:  make([][3]float64, len(m.Vertices)),
		Triangles: make([][3]int, len(m.Faces)),
		Field:     field,
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = v.Array()
	}
	for i, f := range m.Faces {
		out.Triangles[i] = f.V
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode mesh: %w", err)
	}
	return nil
}

// ReadJSON decodes a mesh written by WriteJSON, returning the field when
// one was stored.
func ReadJSON(r io.Reader) (*Mesh, []float64, error) {
	var in meshJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, nil, fmt.Errorf("decode mesh: %w", err)
	}
	m := NewMesh(in.Name)
	for _, v := range in.Vertices {
		m.Vertices = append(m.Vertices, math3d.V3(v[0], v[1], v[2]))
	}
	for _, t := range in.Triangles {
		m.Faces = append(m.Faces, Face{V: t})
	}
	return m, in.Field, nil
}
