package illum

import (
	"errors"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/taigrr/umbra/pkg/geom"
	"github.com/taigrr/umbra/pkg/math3d"
	"github.com/taigrr/umbra/pkg/models"
)

func TestDirectFacingLight(t *testing.T) {
	a := math3d.V3(0, 0, 0)
	b := math3d.V3(2, 0, 0)
	c := math3d.V3(1, 1, 3)

	n := geom.Normal(a, b, c)
	source := geom.Centroid(a, b, c).Add(n.Scale(1000))

	if got := Direct(a, b, c, source); math.Abs(got-1) > 1e-9 {
		t.Errorf("got %v, want 1", got)
	}
}

func TestDirect(t *testing.T) {
	a := math3d.V3(0, 0, 0)
	b := math3d.V3(1, 0, 0)
	c := math3d.V3(0, 1, 0)
	g := geom.Centroid(a, b, c)

	tests := []struct {
		name   string
		source math3d.Vec3
		want   float64
	}{
		{"overhead", g.Add(math3d.V3(0, 0, 5)), 1},
		{"below", g.Add(math3d.V3(0, 0, -5)), 0},
		{"grazing", g.Add(math3d.V3(5, 0, 0)), 0},
		{"45 degrees", g.Add(math3d.V3(3, 0, 3)), math.Sqrt2 / 2},
		{"at centroid", g, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Direct(a, b, c, tt.source)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// occluded builds a floor at z=0 under a larger panel at z=1.
func occluded() *models.Mesh {
	return models.Concat("occluded",
		models.Ground(math3d.V3(0, 0, 0), math3d.V3(2, 2, 0)),
		models.Ground(math3d.V3(-1, -1, 1), math3d.V3(3, 3, 1)),
	)
}

func TestShadowedOccluder(t *testing.T) {
	m := occluded()
	source := math3d.V3(1, 1, 10)

	lit, err := Unshadowed(m, source)
	if err != nil {
		t.Fatalf("Unshadowed: %v", err)
	}
	shadowed, err := Shadowed(m, source)
	if err != nil {
		t.Fatalf("Shadowed: %v", err)
	}

	for i := range 2 {
		if lit[i] <= 0 {
			t.Errorf("face %d: unshadowed got %v, want > 0", i, lit[i])
		}
		if shadowed[i] != 0 {
			t.Errorf("face %d: shadowed got %v, want 0", i, shadowed[i])
		}
	}
	for i := 2; i < 4; i++ {
		if shadowed[i] != lit[i] {
			t.Errorf("occluder face %d: got %v, want %v", i, shadowed[i], lit[i])
		}
	}
}

func TestShadowedFacingAway(t *testing.T) {
	m := models.NewMesh("down")
	m.Vertices = []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(0, 1, 0),
		math3d.V3(1, 0, 0),
	}
	m.Faces = []models.Face{models.F(0, 1, 2)}

	for name, fn := range map[string]func(*models.Mesh, math3d.Vec3) ([]float64, error){
		"unshadowed": Unshadowed,
		"shadowed":   Shadowed,
	} {
		field, err := fn(m, math3d.V3(0.3, 0.3, 5))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if field[0] != 0 {
			t.Errorf("%s: got %v, want 0", name, field[0])
		}
	}
}

func TestShadowedConvexMatchesUnshadowed(t *testing.T) {
	m := models.Pyramid(2, 3)
	source := math3d.V3(-10, 6, 10)

	lit, err := Unshadowed(m, source)
	if err != nil {
		t.Fatalf("Unshadowed: %v", err)
	}
	shadowed, err := Shadowed(m, source)
	if err != nil {
		t.Fatalf("Shadowed: %v", err)
	}
	if !slices.Equal(lit, shadowed) {
		t.Errorf("got %v, want %v", shadowed, lit)
	}
}

func TestShadowedCoplanarNeighbours(t *testing.T) {
	// a flat grid lit from above must not shadow itself through shared edges
	m := grid(4, 0)
	field, err := Shadowed(m, math3d.V3(2, 2, 3))
	if err != nil {
		t.Fatalf("Shadowed: %v", err)
	}
	for i, e := range field {
		if e <= 0 {
			t.Errorf("face %d: got %v, want > 0", i, e)
		}
	}
}

func TestShadowedSphereOnGround(t *testing.T) {
	s, err := models.SDFSphere(1)
	if err != nil {
		t.Fatalf("SDFSphere: %v", err)
	}
	ball := models.FromSDF("ball", models.SDFTranslate(s, math3d.V3(0, 0, 3)), 8)
	ground := grid(8, -4)
	m := models.Concat("scene", ground, ball)
	source := math3d.V3(0, 0, 10)

	field, err := Shadowed(m, source)
	if err != nil {
		t.Fatalf("Shadowed: %v", err)
	}

	for i := range ground.Faces {
		g := geom.Centroid(m.Triangle(i))
		r := math.Hypot(g.X, g.Y)
		switch {
		case r < 0.5 && field[i] != 0:
			t.Errorf("face %d at r=%.2f: got %v, want shadowed", i, r, field[i])
		case r > 2.5 && field[i] == 0:
			t.Errorf("face %d at r=%.2f: got 0, want lit", i, r)
		}
	}
}

func TestShadowedWorkersAgree(t *testing.T) {
	s, err := models.SDFSphere(1)
	if err != nil {
		t.Fatalf("SDFSphere: %v", err)
	}
	m := models.Concat("scene", grid(6, -3), models.FromSDF("ball", models.SDFTranslate(s, math3d.V3(0.5, 0, 2)), 8))
	source := math3d.V3(-4, 3, 8)

	serial, err := (&Illuminator{Workers: 1}).Shadowed(m, source)
	if err != nil {
		t.Fatalf("Shadowed: %v", err)
	}
	for _, workers := range []int{2, 3, 8} {
		got, err := (&Illuminator{Workers: workers}).Shadowed(m, source)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if !slices.Equal(got, serial) {
			t.Errorf("workers=%d: field differs from serial run", workers)
		}
	}
}

func TestShadowedProgress(t *testing.T) {
	m := grid(5, 0)
	var mu sync.Mutex
	var calls, last int

	il := &Illuminator{
		Workers: 4,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if total != len(m.Faces) {
				t.Errorf("got total %d, want %d", total, len(m.Faces))
			}
			last = max(last, done)
		},
	}
	if _, err := il.Shadowed(m, math3d.V3(1, 1, 5)); err != nil {
		t.Fatalf("Shadowed: %v", err)
	}
	if calls == 0 {
		t.Error("progress never reported")
	}
	if last != len(m.Faces) {
		t.Errorf("got final progress %d, want %d", last, len(m.Faces))
	}
}

func TestOccludedCandidateOrder(t *testing.T) {
	m := occluded()
	a, b, c := m.Triangle(0)
	origin := geom.Centroid(a, b, c)
	source := math3d.V3(1, 1, 10)

	orders := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
	}
	for _, candidates := range orders {
		if !Occluded(m, candidates, 0, origin, source) {
			t.Errorf("candidates %v: got false, want true", candidates)
		}
	}

	if Occluded(m, []int{0, 1}, 0, origin, source) {
		t.Error("floor faces alone should not occlude")
	}
	if Occluded(m, nil, 0, origin, source) {
		t.Error("no candidates should not occlude")
	}
}

func TestPreconditions(t *testing.T) {
	outOfRange := models.NewMesh("bad")
	outOfRange.Vertices = []math3d.Vec3{{}, math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)}
	outOfRange.Faces = []models.Face{models.F(0, 1, 3)}

	degenerate := models.NewMesh("flat")
	degenerate.Vertices = []math3d.Vec3{{}, math3d.V3(1, 0, 0), math3d.V3(2, 0, 0)}
	degenerate.Faces = []models.Face{models.F(0, 1, 2)}

	tests := []struct {
		name   string
		mesh   *models.Mesh
		source math3d.Vec3
		want   error
	}{
		{"nil mesh", nil, math3d.V3(0, 0, 1), models.ErrEmptyMesh},
		{"empty mesh", models.NewMesh("empty"), math3d.V3(0, 0, 1), models.ErrEmptyMesh},
		{"index out of range", outOfRange, math3d.V3(0, 0, 1), models.ErrIndexOutOfRange},
		{"degenerate", degenerate, math3d.V3(0, 0, 1), models.ErrDegenerateTriangle},
		{"nan source", models.Pyramid(1, 1), math3d.V3(math.NaN(), 0, 1), ErrInvalidSource},
		{"inf source", models.Pyramid(1, 1), math3d.V3(0, math.Inf(1), 1), ErrInvalidSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unshadowed(tt.mesh, tt.source); !errors.Is(err, tt.want) {
				t.Errorf("Unshadowed: got %v, want %v", err, tt.want)
			}
			if _, err := Shadowed(tt.mesh, tt.source); !errors.Is(err, tt.want) {
				t.Errorf("Shadowed: got %v, want %v", err, tt.want)
			}
		})
	}
}

// grid builds an n×n field of unit squares at z=0 starting at (off, off).
func grid(n int, off float64) *models.Mesh {
	cells := make([]*models.Mesh, 0, n*n)
	for i := range n {
		for j := range n {
			x, y := off+float64(i), off+float64(j)
			cells = append(cells, models.Ground(math3d.V3(x, y, 0), math3d.V3(x+1, y+1, 0)))
		}
	}
	return models.Concat("grid", cells...)
}

func BenchmarkShadowed(b *testing.B) {
	m := grid(12, -6)
	source := math3d.V3(1, 2, 8)
	for b.Loop() {
		Shadowed(m, source)
	}
}

func BenchmarkUnshadowed(b *testing.B) {
	m := grid(12, -6)
	source := math3d.V3(1, 2, 8)
	for b.Loop() {
		Unshadowed(m, source)
	}
}
