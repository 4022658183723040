package models

import (
	"bytes"
	"testing"
)

func TestJSONRoundTrip(t *testing.T) {
	p := Pyramid(2, 3)
	field := []float64{0, 0, 0.5, 1, 0.25, 0}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, p, field); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	m, got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if m.Name != p.Name || m.VertexCount() != p.VertexCount() || m.TriangleCount() != p.TriangleCount() {
		t.Errorf("mesh changed: %s %d/%d", m.Name, m.VertexCount(), m.TriangleCount())
	}
	for i := range field {
		if got[i] != field[i] {
			t.Errorf("field[%d] = %v, want %v", i, got[i], field[i])
		}
	}
}

func TestWriteJSONFieldMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, Pyramid(1, 1), []float64{1}); err == nil {
		t.Error("expected error for misaligned field")
	}
}
