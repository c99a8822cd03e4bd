package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kaoyan-advisor/internal/models"
)

func TestLogisticModel_Probability(t *testing.T) {
	m := DefaultLogisticModel()
	assert.InDelta(t, 50.0, m.Probability(65), 1e-9)

	prev := m.Probability(0)
	for total := 1.0; total <= 100; total++ {
		p := m.Probability(total)
		assert.Greater(t, p, prev, "total=%v", total)
		assert.True(t, p > 0 && p < 100)
		prev = p
	}
}

func TestLogisticModel_Validate(t *testing.T) {
	assert.NoError(t, DefaultLogisticModel().Validate())
	assert.Error(t, LogisticModel{K: 0, Midpoint: 65}.Validate())
	assert.Error(t, LogisticModel{K: -0.1, Midpoint: 65}.Validate())
}

func TestThresholds_Classify(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		p    float64
		want models.Tier
	}{
		{0, models.TierImpossible},
		{24.99, models.TierImpossible},
		{25, models.TierReach},
		{44.99, models.TierReach},
		{45, models.TierMatch},
		{74.99, models.TierMatch},
		{75, models.TierSafety},
		{97, models.TierSafety},
		{100, models.TierSafety},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Classify(tt.p), "p=%v", tt.p)
	}
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.Error(t, Thresholds{Reach: 50, Match: 45, Safety: 75}.Validate())
	assert.Error(t, Thresholds{Reach: 25, Match: 45, Safety: 120}.Validate())
	assert.Error(t, Thresholds{Reach: -1, Match: 45, Safety: 75}.Validate())
}

func TestResolveWeights(t *testing.T) {
	got := ResolveWeights(
		map[string]float64{"admission": 0.5, "bogus": 1},
		[]models.Weight{{Name: "location", Value: 0}, {Name: "unknown", Value: 0.9}},
	)

	assert.Len(t, got, len(models.AllDimensions))
	assert.Equal(t, 0.5, got[models.DimensionAdmission])
	assert.Equal(t, 0.0, got[models.DimensionLocation])
	assert.Equal(t, 0.15, got[models.DimensionMajor])

	assert.True(t, IsDimension("advanced_study"))
	assert.False(t, IsDimension("bogus"))
}

func TestComposite_AdmissionOnly(t *testing.T) {
	dims := []models.DimensionResult{
		{Dimension: models.DimensionAdmission, Total: 72.5},
		{Dimension: models.DimensionLocation, Total: 40},
		{Dimension: models.DimensionMajor, Total: 90},
		{Dimension: models.DimensionAdvancedStudy, Total: 10},
		{Dimension: models.DimensionSystemEmployment, Total: 55},
		{Dimension: models.DimensionNonSystemEmployment, Total: 65},
	}
	weights := DimensionWeights{
		models.DimensionAdmission:           1,
		models.DimensionLocation:            0,
		models.DimensionMajor:               0,
		models.DimensionAdvancedStudy:       0,
		models.DimensionSystemEmployment:    0,
		models.DimensionNonSystemEmployment: 0,
	}
	assert.InDelta(t, 72.5, Composite(dims, weights), 1e-9)

	expected := 72.5*0.2 + 40*0.15 + 90*0.15 + 10*0.2 + 55*0.15 + 65*0.15
	assert.InDelta(t, expected, Composite(dims, DefaultDimensionWeights()), 1e-9)
}
