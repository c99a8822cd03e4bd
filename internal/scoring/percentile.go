package scoring

// NeutralPercentile is returned when there is nothing to compare against.
const NeutralPercentile = 50.0

// Percentile returns the share of population values <= value, scaled to
// [0,100]. With reverse set the result is inverted for metrics where a smaller
// raw value is better, such as a national rank.
func Percentile(value float64, population []float64, reverse bool) float64 {
	if len(population) == 0 {
		return NeutralPercentile
	}

	atOrBelow := 0
	for _, v := range population {
		if v <= value {
			atOrBelow++
		}
	}

	p := float64(atOrBelow) / float64(len(population)) * 100
	if reverse {
		return 100 - p
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampScore(v float64) float64 {
	return clamp(v, 0, 100)
}
