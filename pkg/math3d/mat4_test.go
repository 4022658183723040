package math3d

import (
	"math"
	"testing"
)

func TestMat4Transforms(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"identity", Identity(), V3(1, 2, 3), V3(1, 2, 3)},
		{"translate", Translate(V3(1, -1, 2)), V3(1, 2, 3), V3(2, 1, 5)},
		{"scale", ScaleUniform(2), V3(1, 2, 3), V3(2, 4, 6)},
		{"rotate z quarter", RotateZ(math.Pi / 2), V3(1, 0, 0), V3(0, 1, 0)},
		{"rotate x quarter", RotateX(math.Pi / 2), V3(0, 1, 0), V3(0, 0, 1)},
		{"rotate y quarter", RotateY(math.Pi / 2), V3(0, 0, 1), V3(1, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.MulVec3(tc.in)
			if !got.ApproxEqual(tc.want, 1e-12) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMat4MulComposes(t *testing.T) {
	m := Translate(V3(0, 0, 5)).Mul(ScaleUniform(2))
	got := m.MulVec3(V3(1, 1, 1))
	if !got.ApproxEqual(V3(2, 2, 7), 1e-12) {
		t.Errorf("scale then translate = %v, want (2, 2, 7)", got)
	}
}

func TestPerspectiveDepthOrder(t *testing.T) {
	p := Perspective(math.Pi/3, 1, 0.1, 100)
	near := p.MulVec4(V4FromV3(V3(0, 0, -1), 1)).PerspectiveDivide()
	far := p.MulVec4(V4FromV3(V3(0, 0, -50), 1)).PerspectiveDivide()
	if near.Z >= far.Z {
		t.Errorf("near depth %v should be less than far depth %v", near.Z, far.Z)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}
