package illum

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes an illumination field.
type Summary struct {
	Count    int
	Min      float64
	Max      float64
	Mean     float64
	Lit      int // faces with a positive value
	Shadowed int // faces receiving no light
}

// Summarize computes the summary of field. An empty field gives the zero
// Summary.
func Summarize(field []float64) Summary {
	s := Summary{Count: len(field)}
	if len(field) == 0 {
		return s
	}
	s.Min = floats.Min(field)
	s.Max = floats.Max(field)
	s.Mean = stat.Mean(field, nil)
	s.Lit = lo.CountBy(field, func(e float64) bool { return e > 0 })
	s.Shadowed = s.Count - s.Lit
	return s
}
