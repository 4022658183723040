// Package illum computes per-face direct illumination of a mesh by a point
// light, with or without shadows cast by the mesh onto itself.
package illum

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/taigrr/umbra/internal/parallel"
	"github.com/taigrr/umbra/pkg/geom"
	"github.com/taigrr/umbra/pkg/intersect"
	"github.com/taigrr/umbra/pkg/math3d"
	"github.com/taigrr/umbra/pkg/models"
)

// ErrInvalidSource is returned when the light position is not finite.
var ErrInvalidSource = errors.New("light source is not finite")

// Direct returns the Lambertian term of triangle abc lit from source: the
// cosine between the face normal and the direction from the centroid to the
// light, clamped to [0, 1]. A light at the centroid gives 0.
func Direct(a, b, c, source math3d.Vec3) float64 {
	l := source.Sub(geom.Centroid(a, b, c)).Normalize()
	e := l.Dot(geom.Normal(a, b, c))
	return min(max(e, 0), 1)
}

// Unshadowed returns the direct illumination of every face, ignoring
// occlusion.
func Unshadowed(m *models.Mesh, source math3d.Vec3) ([]float64, error) {
	if err := check(m, source); err != nil {
		return nil, err
	}
	field := make([]float64, len(m.Faces))
	for i := range m.Faces {
		a, b, c := m.Triangle(i)
		field[i] = Direct(a, b, c, source)
	}
	return field, nil
}

// Shadowed returns the illumination of every face with shadows, using one
// worker per CPU. See Illuminator.Shadowed.
func Shadowed(m *models.Mesh, source math3d.Vec3) ([]float64, error) {
	return NewIlluminator().Shadowed(m, source)
}

// Occluded reports whether any candidate face other than emitter crosses
// the segment from origin to source. The search stops at the first hit.
func Occluded(m *models.Mesh, candidates []int, emitter int, origin, source math3d.Vec3) bool {
	return lo.ContainsBy(candidates, func(j int) bool {
		if j == emitter {
			return false
		}
		a, b, c := m.Triangle(j)
		_, hit := intersect.SegmentTriangle(a, b, c, origin, source)
		return hit
	})
}

// Illuminator runs the shadowed pass on a bounded number of goroutines.
type Illuminator struct {
	// Workers is the number of goroutines. Values below 1 use one per CPU.
	Workers int

	// Progress, when set, is called as faces complete. It is called from
	// several goroutines at once and must be safe for concurrent use.
	Progress func(done, total int)
}

// NewIlluminator creates an Illuminator with one worker per CPU.
func NewIlluminator() *Illuminator {
	return &Illuminator{Workers: parallel.Workers(0)}
}

// Shadowed returns the illumination of every face. A face whose direct
// term is positive is tested against every other face along the segment
// from its centroid to the light; any crossing sets it to 0. Faces facing
// away from the light are never tested.
//
// The mesh is read concurrently and must not be modified during the call.
func (il *Illuminator) Shadowed(m *models.Mesh, source math3d.Vec3) ([]float64, error) {
	if err := check(m, source); err != nil {
		return nil, err
	}

	total := len(m.Faces)
	field := make([]float64, total)
	candidates := lo.Range(total)

	step := max(total/100, 1)
	var done atomic.Int64

	err := parallel.Range(total, il.Workers, func(from, to int) error {
		for i := from; i < to; i++ {
			a, b, c := m.Triangle(i)
			if e := Direct(a, b, c, source); e > 0 && !Occluded(m, candidates, i, geom.Centroid(a, b, c), source) {
				field[i] = e
			}

			if il.Progress != nil {
				if n := int(done.Add(1)); n%step == 0 || n == total {
					il.Progress(n, total)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return field, nil
}

func check(m *models.Mesh, source math3d.Vec3) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("validate mesh: %w", err)
	}
	if !source.IsFinite() {
		return fmt.Errorf("source %v: %w", source, ErrInvalidSource)
	}
	return nil
}
