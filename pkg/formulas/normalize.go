package formulas

import "math"

// MinMaxCostScores normalizes raw costs so the cheapest candidate scores
// exactly 1 and the most expensive scores 0. When every candidate ties,
// all score 1 (there is nothing to discriminate, and dividing by the
// zero range would poison the composite).
func MinMaxCostScores(raw []float64) []float64 {
	scores := make([]float64, len(raw))
	if len(raw) == 0 {
		return scores
	}

	lo, hi := raw[0], raw[0]
	for _, v := range raw[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if hi == lo {
		for i := range scores {
			scores[i] = 1.0
		}
		return scores
	}

	for i, v := range raw {
		scores[i] = (hi - v) / (hi - lo)
	}
	return scores
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// NonNegative clamps v to zero where a negative value would be
// physically meaningless
func NonNegative(v float64) float64 {
	return math.Max(0, v)
}

// StraightLine amortizes a total cost linearly over a life in years
func StraightLine(total, lifeYears float64) float64 {
	if lifeYears <= 0 {
		return 0
	}
	return total / lifeYears
}

// Round2 rounds to 2 decimal places
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
