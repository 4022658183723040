package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const asciiTetra = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal -1 0 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 0 1 0
    endloop
  endfacet
  facet normal 1 1 1
    outer loop
      vertex 1 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
endsolid tetra
`

func binarySTL(soup [][3][3]float32) []byte {
	var buf bytes.Buffer
	header := make([]byte, stlHeaderSize)
	copy(header, "solid but actually binary")
	buf.Write(header)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(soup)))
	for _, tri := range soup {
		_ = binary.Write(&buf, binary.LittleEndian, [3]float32{})
		for _, v := range tri {
			_ = binary.Write(&buf, binary.LittleEndian, v)
		}
		_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

func TestParseASCIISTL(t *testing.T) {
	soup, err := ParseSTL([]byte(asciiTetra))
	if err != nil {
		t.Fatalf("ParseSTL: %v", err)
	}
	if len(soup) != 4 {
		t.Fatalf("got %d facets, want 4", len(soup))
	}

	m := Weld("tetra", soup)
	if m.VertexCount() != 4 || m.TriangleCount() != 4 {
		t.Errorf("welded to %d vertices %d faces, want 4 and 4", m.VertexCount(), m.TriangleCount())
	}
}

func TestParseBinarySTL(t *testing.T) {
	data := binarySTL([][3][3]float32{
		{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	})
	soup, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("ParseSTL: %v", err)
	}
	if len(soup) != 2 {
		t.Fatalf("got %d facets, want 2", len(soup))
	}
	if soup[1][1].X != 1 || soup[1][1].Y != 1 {
		t.Errorf("second facet vertex = %v", soup[1][1])
	}
}

func TestParseSTLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no facets", "solid x\nendsolid x\n"},
		{"short loop", "solid x\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\n"},
		{"bad number", "solid x\nouter loop\nvertex 0 zero 0\n"},
		{"too many fields", "solid x\nouter loop\nvertex 0 0 0 0\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSTL([]byte(tc.data))
			if !errors.Is(err, ErrMalformedSTL) {
				t.Errorf("got %v, want ErrMalformedSTL", err)
			}
		})
	}
}

func TestLoadSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetra.stl")
	if err := os.WriteFile(path, []byte(asciiTetra), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadSTL(path)
	if err != nil {
		t.Fatalf("LoadSTL: %v", err)
	}
	if m.Name != "tetra.stl" {
		t.Errorf("Name = %q", m.Name)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	var total float64
	for i := range m.Faces {
		total += m.Area(i)
	}
	want := 1.5 + math.Sqrt(3)/2
	if math.Abs(total-want) > 1e-9 {
		t.Errorf("surface area = %v, want %v", total, want)
	}
}

func TestLoadSTLInvalidPath(t *testing.T) {
	if _, err := LoadSTL("/nonexistent/path.stl"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}
