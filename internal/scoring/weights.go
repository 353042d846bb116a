package scoring

import "math"

// Weights are the base points each sub-score contributes out of 100
type Weights struct {
	Structure  float64 `json:"structure" yaml:"structure"`
	Keywords   float64 `json:"keywords" yaml:"keywords"`
	Impact     float64 `json:"impact" yaml:"impact"`
	Formatting float64 `json:"formatting" yaml:"formatting"`
}

// DefaultWeights sum to 100
var DefaultWeights = Weights{
	Structure:  30,
	Keywords:   30,
	Impact:     20,
	Formatting: 20,
}

// Total is the sum of all base weights
func (w Weights) Total() float64 {
	return w.Structure + w.Keywords + w.Impact + w.Formatting
}

// effectiveWeight scales base so the applied weights sum to 100
func effectiveWeight(base, appliedBase float64) float64 {
	if appliedBase <= 0 || base <= 0 {
		return 0
	}
	return base * 100 / appliedBase
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
