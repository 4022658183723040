// Package tessellate refines a mesh by midpoint subdivision until no face
// is larger than an area threshold.
package tessellate

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/taigrr/umbra/internal/parallel"
	"github.com/taigrr/umbra/pkg/math3d"
	"github.com/taigrr/umbra/pkg/models"
)

var (
	// ErrInvalidThreshold is returned for an area threshold or divisor that
	// is not positive and finite.
	ErrInvalidThreshold = errors.New("area threshold must be positive and finite")

	// ErrTooManyTriangles is returned when a round would exceed
	// Refiner.MaxTriangles.
	ErrTooManyTriangles = errors.New("refinement exceeds triangle limit")
)

// Subdivide splits face i of m into four by its edge midpoints. The
// midpoints of AB, BC and CA are returned in that order and are indexed as
// if appended to m.Vertices. The children keep the parent's winding:
//
//	[A, ab, ca]  [ab, bc, ca]  [ab, B, bc]  [ca, bc, C]
//
// m is not modified.
func Subdivide(m *models.Mesh, i int) ([3]math3d.Vec3, [4]models.Face) {
	a, b, c := m.Triangle(i)
	f := m.Faces[i].V
	n := len(m.Vertices)
	ab, bc, ca := n, n+1, n+2

	mids := [3]math3d.Vec3{a.Mid(b), b.Mid(c), c.Mid(a)}
	children := [4]models.Face{
		models.F(f[0], ab, ca),
		models.F(ab, bc, ca),
		models.F(ab, f[1], bc),
		models.F(ca, bc, f[2]),
	}
	return mids, children
}

// Stats reports the work done by a refinement.
type Stats struct {
	Rounds int // rounds that split at least one face
	Split  int // faces split over all rounds
}

// Refiner subdivides every face whose area exceeds MaxArea.
type Refiner struct {
	MaxArea float64

	// Workers bounds the goroutines used to classify faces each round.
	// Values below 1 use one per CPU.
	Workers int

	// MaxTriangles, when positive, aborts refinement before a round would
	// produce more faces than this.
	MaxTriangles int
}

// Refine refines m with a Refiner using one worker per CPU.
func Refine(m *models.Mesh, maxArea float64) (*models.Mesh, error) {
	out, _, err := (&Refiner{MaxArea: maxArea}).Refine(m)
	return out, err
}

// Refine returns a refined copy of m. Work proceeds in rounds: every face
// of the current mesh is measured, then all oversized faces are split at
// once. Their midpoints are appended to the vertex buffer first, then the
// face buffer is rebuilt as the surviving faces in their original order
// followed by the children in the order they were produced. Refinement
// stops when a round finds nothing to split. m is never modified.
func (r *Refiner) Refine(m *models.Mesh) (*models.Mesh, Stats, error) {
	var stats Stats
	if !validThreshold(r.MaxArea) {
		return nil, stats, fmt.Errorf("max area %v: %w", r.MaxArea, ErrInvalidThreshold)
	}
	if err := m.Validate(); err != nil {
		return nil, stats, fmt.Errorf("validate mesh: %w", err)
	}

	out := m.Clone()
	for {
		split, err := r.classify(out)
		if err != nil {
			return nil, stats, err
		}
		count := lo.Count(split, true)
		if count == 0 {
			return out, stats, nil
		}

		total := len(out.Faces) + 3*count
		if r.MaxTriangles > 0 && total > r.MaxTriangles {
			return nil, stats, fmt.Errorf("round %d needs %d faces (limit %d): %w",
				stats.Rounds+1, total, r.MaxTriangles, ErrTooManyTriangles)
		}

		survivors := make([]models.Face, 0, total)
		children := make([]models.Face, 0, 4*count)
		for i, f := range out.Faces {
			if !split[i] {
				survivors = append(survivors, f)
				continue
			}
			mids, kids := Subdivide(out, i)
			out.Vertices = append(out.Vertices, mids[:]...)
			children = append(children, kids[:]...)
		}
		out.Faces = append(survivors, children...)

		stats.Rounds++
		stats.Split += count
	}
}

// classify marks the faces of m larger than MaxArea.
func (r *Refiner) classify(m *models.Mesh) ([]bool, error) {
	split := make([]bool, len(m.Faces))
	err := parallel.Range(len(m.Faces), r.Workers, func(from, to int) error {
		for i := from; i < to; i++ {
			split[i] = m.Area(i) > r.MaxArea
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("classify faces: %w", err)
	}
	return split, nil
}

// MaxAreaFraction returns the area of the largest face of m divided by
// divisor, a threshold relative to the mesh's own scale.
func MaxAreaFraction(m *models.Mesh, divisor float64) (float64, error) {
	if !validThreshold(divisor) {
		return 0, fmt.Errorf("area divisor %v: %w", divisor, ErrInvalidThreshold)
	}
	if err := m.Validate(); err != nil {
		return 0, fmt.Errorf("validate mesh: %w", err)
	}
	largest := lo.Max(lo.Map(m.Faces, func(_ models.Face, i int) float64 {
		return m.Area(i)
	}))
	return largest / divisor, nil
}

func validThreshold(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
