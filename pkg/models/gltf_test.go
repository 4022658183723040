package models

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
)

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, err := LoadGLTF("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderDefaults(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.Weld {
		t.Error("Weld should default to true")
	}
}

// writeQuadGLB writes a two-triangle quad with duplicated corner vertices,
// as exporters produce for flat-shaded geometry.
func writeQuadGLB(t *testing.T) string {
	t.Helper()

	positions := [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0},
		{0, 0, 0}, {1, 1, 0}, {0, 1, 0},
	}
	indices := []uint16{0, 1, 2, 3, 4, 5}

	var data []byte
	for _, p := range positions {
		for _, f := range p {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
		}
	}
	posLen := len(data)
	for _, i := range indices {
		data = binary.LittleEndian.AppendUint16(data, i)
	}

	doc := &gltf.Document{
		Asset:   gltf.Asset{Version: "2.0"},
		Buffers: []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: posLen},
			{Buffer: 0, ByteOffset: posLen, ByteLength: len(data) - posLen},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Count: len(positions), Type: gltf.AccessorVec3},
			{BufferView: gltf.Index(1), ComponentType: gltf.ComponentUshort, Count: len(indices), Type: gltf.AccessorScalar},
		},
		Meshes: []*gltf.Mesh{{
			Name: "quad",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: 0},
				Indices:    gltf.Index(1),
				Mode:       gltf.PrimitiveTriangles,
			}},
		}},
	}

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLTFWelds(t *testing.T) {
	path := writeQuadGLB(t)

	m, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("got %d vertices, want 4 after welding", m.VertexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("got %d faces, want 2", m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadGLTFWithoutWeld(t *testing.T) {
	path := writeQuadGLB(t)

	loader := &GLTFLoader{Weld: false}
	m, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.VertexCount() != 6 {
		t.Errorf("got %d vertices, want 6 without welding", m.VertexCount())
	}
	// counter-clockwise glTF winding keeps the +Z normal
	a, b, c := m.Triangle(0)
	if n := b.Sub(a).Cross(c.Sub(a)); n.Z <= 0 {
		t.Errorf("first face normal %v should point +Z", n)
	}
}
