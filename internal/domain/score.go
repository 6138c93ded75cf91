package domain

import "fmt"

// Counts holds the per-sample true positive, false positive, and false
// negative counts produced by the micro-F1 metric. Counts are never
// averaged directly; they are summed component-wise across a task before
// the precision/recall ratios are computed.
type Counts struct {
	TruePositives  int `json:"tp" validate:"min=0"`
	FalsePositives int `json:"fp" validate:"min=0"`
	FalseNegatives int `json:"fn" validate:"min=0"`
}

// Add returns the component-wise sum of two count tuples.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		TruePositives:  c.TruePositives + o.TruePositives,
		FalsePositives: c.FalsePositives + o.FalsePositives,
		FalseNegatives: c.FalseNegatives + o.FalseNegatives,
	}
}

// F1 computes the micro-averaged F1 from summed counts. When both
// precision and recall are zero the score is defined as 0 rather than
// NaN; a degenerate task scores worst instead of crashing the run.
func (c Counts) F1() float64 {
	tp := float64(c.TruePositives)
	denomP := tp + float64(c.FalsePositives)
	denomR := tp + float64(c.FalseNegatives)
	if denomP == 0 || denomR == 0 {
		return 0
	}
	precision := tp / denomP
	recall := tp / denomR
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// Score is one sample's result: either a scalar in a metric-defined range
// or, for the micro-F1 family, a tp/fp/fn count tuple awaiting global
// reduction.
type Score struct {
	value  float64
	counts *Counts
}

// ScalarScore wraps a plain numeric sample score.
func ScalarScore(v float64) Score { return Score{value: v} }

// BoolScore maps a boolean outcome to 1.0 or 0.0 so equality metrics
// average cleanly with fractional ones.
func BoolScore(ok bool) Score {
	if ok {
		return Score{value: 1}
	}
	return Score{value: 0}
}

// CountScore wraps a micro-F1 count tuple.
func CountScore(c Counts) Score { return Score{counts: &c} }

// IsCounts reports whether the score is a count tuple rather than a scalar.
func (s Score) IsCounts() bool { return s.counts != nil }

// Value returns the scalar payload. Only meaningful when IsCounts is false.
func (s Score) Value() float64 { return s.value }

// Counts returns the count tuple payload. Only meaningful when IsCounts
// is true.
func (s Score) Counts() Counts {
	if s.counts == nil {
		return Counts{}
	}
	return *s.counts
}

// String renders the score for progress logging, matching the two shapes
// a sample score can take.
func (s Score) String() string {
	if s.counts != nil {
		return fmt.Sprintf("tp %d, fp %d, fn %d",
			s.counts.TruePositives, s.counts.FalsePositives, s.counts.FalseNegatives)
	}
	return fmt.Sprintf("%g", s.value)
}
