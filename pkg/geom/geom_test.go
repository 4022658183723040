package geom

import (
	"math"
	"testing"

	"github.com/taigrr/umbra/pkg/math3d"
)

var triangles = []struct {
	name    string
	a, b, c math3d.Vec3
}{
	{"slanted", math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(1, 1, 3)},
	{"xy unit", math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
	{"offset", math3d.V3(-4, 2, 7), math3d.V3(3, 5, -1), math3d.V3(0.5, -2, 2)},
	{"thin", math3d.V3(0, 0, 0), math3d.V3(100, 0, 0), math3d.V3(50, 0.01, 0)},
}

func TestCentroid(t *testing.T) {
	got := Centroid(math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(1, 1, 3))
	want := math3d.V3(1, 1.0/3, 1)
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("Centroid = %v, want %v", got, want)
	}
}

func TestNormalKnownValue(t *testing.T) {
	got := Normal(math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(1, 1, 3))
	want := math3d.V3(0, -6, 2).Normalize()
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("Normal = %v, want %v", got, want)
	}
}

func TestNormalIsUnit(t *testing.T) {
	for _, tc := range triangles {
		t.Run(tc.name, func(t *testing.T) {
			n := Normal(tc.a, tc.b, tc.c)
			if math.Abs(n.Len()-1) > 1e-12 {
				t.Errorf("|normal| = %v, want 1", n.Len())
			}
		})
	}
}

func TestWindingReversal(t *testing.T) {
	for _, tc := range triangles {
		t.Run(tc.name, func(t *testing.T) {
			if a1, a2 := Area(tc.a, tc.b, tc.c), Area(tc.a, tc.c, tc.b); math.Abs(a1-a2) > 1e-12 {
				t.Errorf("area changed with winding: %v vs %v", a1, a2)
			}
			n1 := Normal(tc.a, tc.b, tc.c)
			n2 := Normal(tc.a, tc.c, tc.b)
			if !n1.ApproxEqual(n2.Negate(), 1e-12) {
				t.Errorf("reversed normal = %v, want %v", n2, n1.Negate())
			}
		})
	}
}

func TestArea(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c math3d.Vec3
		want    float64
	}{
		{"right unit", math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), 0.5},
		{"unit area", math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(0, 1, 0), 1},
		{"slanted", math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(1, 1, 3), math.Sqrt(40) / 2},
		{"collinear", math3d.V3(0, 0, 0), math3d.V3(1, 1, 1), math3d.V3(2, 2, 2), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Area(tc.a, tc.b, tc.c); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Area = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c math3d.Vec3
		want    bool
	}{
		{"regular", math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), false},
		{"collinear", math3d.V3(0, 0, 0), math3d.V3(1, 1, 1), math3d.V3(2, 2, 2), true},
		{"repeated vertex", math3d.V3(1, 2, 3), math3d.V3(1, 2, 3), math3d.V3(0, 1, 0), true},
		{"nan vertex", math3d.V3(math.NaN(), 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Degenerate(tc.a, tc.b, tc.c); got != tc.want {
				t.Errorf("Degenerate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNormalDegenerateIsNaN(t *testing.T) {
	n := Normal(math3d.V3(0, 0, 0), math3d.V3(1, 1, 1), math3d.V3(2, 2, 2))
	if n.IsFinite() {
		t.Errorf("degenerate normal = %v, want NaN components", n)
	}
}

func BenchmarkNormal(b *testing.B) {
	a, c, d := math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(1, 1, 3)

	for b.Loop() {
		_ = Normal(a, c, d)
	}
}
