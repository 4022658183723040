package illum

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{0, 0.5, 1, 0, 0.25})
	if s.Count != 5 {
		t.Errorf("got count %d, want 5", s.Count)
	}
	if s.Min != 0 || s.Max != 1 {
		t.Errorf("got range [%v, %v], want [0, 1]", s.Min, s.Max)
	}
	if math.Abs(s.Mean-0.35) > 1e-12 {
		t.Errorf("got mean %v, want 0.35", s.Mean)
	}
	if s.Lit != 3 || s.Shadowed != 2 {
		t.Errorf("got lit=%d shadowed=%d, want 3 and 2", s.Lit, s.Shadowed)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil); s != (Summary{}) {
		t.Errorf("got %+v, want zero summary", s)
	}
}
