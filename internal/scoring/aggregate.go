package scoring

import (
	"fmt"
	"math"

	"kaoyan-advisor/internal/models"
)

// DimensionWeights holds one weight per dimension for the composite score.
type DimensionWeights map[models.Dimension]float64

func DefaultDimensionWeights() DimensionWeights {
	return DimensionWeights{
		models.DimensionLocation:            0.15,
		models.DimensionMajor:               0.15,
		models.DimensionAdvancedStudy:       0.2,
		models.DimensionAdmission:           0.2,
		models.DimensionSystemEmployment:    0.15,
		models.DimensionNonSystemEmployment: 0.15,
	}
}

// IsDimension reports whether name is a known dimension weight name.
func IsDimension(name string) bool {
	_, ok := DefaultDimensionWeights()[models.Dimension(name)]
	return ok
}

// ResolveWeights layers configured weights and then caller weights over the
// defaults. Dimensions absent from both keep their default, and unknown
// names are ignored.
func ResolveWeights(configured map[string]float64, caller []models.Weight) DimensionWeights {
	out := DefaultDimensionWeights()
	for name, v := range configured {
		if _, ok := out[models.Dimension(name)]; ok {
			out[models.Dimension(name)] = v
		}
	}
	for _, w := range caller {
		if _, ok := out[models.Dimension(w.Name)]; ok {
			out[models.Dimension(w.Name)] = w.Value
		}
	}
	return out
}

// Composite is the weighted sum of the dimension totals.
func Composite(dims []models.DimensionResult, weights DimensionWeights) float64 {
	total := 0.0
	for _, d := range dims {
		total += d.Total * weights[d.Dimension]
	}
	return total
}

// LogisticModel maps the admission total to an admission probability in
// percent: 100 / (1 + e^(-K(total-Midpoint))).
type LogisticModel struct {
	K        float64
	Midpoint float64
}

func DefaultLogisticModel() LogisticModel {
	return LogisticModel{K: 0.1, Midpoint: 65}
}

func (m LogisticModel) Validate() error {
	if m.K <= 0 || math.IsNaN(m.K) || math.IsInf(m.K, 0) {
		return fmt.Errorf("logistic k must be a positive number, got %v", m.K)
	}
	return nil
}

func (m LogisticModel) Probability(admissionTotal float64) float64 {
	return 100 / (1 + math.Exp(-m.K*(admissionTotal-m.Midpoint)))
}

// Thresholds are the probabilities where reach, match and safety begin.
// Anything below Reach is reach-impossible; Safety runs up to 100.
type Thresholds struct {
	Reach  float64
	Match  float64
	Safety float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Reach: 25, Match: 45, Safety: 75}
}

func (t Thresholds) Validate() error {
	if !(0 <= t.Reach && t.Reach < t.Match && t.Match < t.Safety && t.Safety <= 100) {
		return fmt.Errorf("tier thresholds must satisfy 0 <= reach < match < safety <= 100, got %+v", t)
	}
	return nil
}

func (t Thresholds) Classify(probability float64) models.Tier {
	switch {
	case probability >= t.Safety:
		return models.TierSafety
	case probability >= t.Match:
		return models.TierMatch
	case probability >= t.Reach:
		return models.TierReach
	default:
		return models.TierImpossible
	}
}
