package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaoyan-advisor/internal/models"
)

func TestWeightTables_SumToOne(t *testing.T) {
	require.Len(t, WeightTables, len(models.AllDimensions))
	for dim, table := range WeightTables {
		t.Run(string(dim), func(t *testing.T) {
			assert.InDelta(t, 1.0, table.Sum(), 1e-6)
			assert.NoError(t, table.Validate())
		})
	}
}

func TestWeightTable_Validate(t *testing.T) {
	tests := []struct {
		name  string
		table WeightTable
	}{
		{"sum too low", WeightTable{{"a", 0.5, 50}, {"b", 0.4, 50}}},
		{"negative weight", WeightTable{{"a", 1.2, 50}, {"b", -0.2, 50}}},
		{"default out of range", WeightTable{{"a", 1.0, 120}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.table.Validate())
		})
	}
}

func TestLookupBand(t *testing.T) {
	tests := []struct {
		name  string
		bands []band
		v     float64
		want  float64
	}{
		{"preparation zero", preparationBands, 0, 30},
		{"preparation 89", preparationBands, 89, 30},
		{"preparation 90", preparationBands, 90, 60},
		{"preparation a year", preparationBands, 400, 100},
		{"competition easy", competitionBands, 2, 90},
		{"competition 5", competitionBands, 5, 50},
		{"competition fierce", competitionBands, 20, 10},
		{"enrollment small", enrollmentBands, 9, 20},
		{"enrollment 50", enrollmentBands, 50, 65},
		{"enrollment large", enrollmentBands, 250, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lookupBand(tt.bands, tt.v))
		})
	}
}

func TestSchoolGapScore(t *testing.T) {
	assert.Equal(t, 80.0, schoolGapScore(-3))
	assert.Equal(t, 80.0, schoolGapScore(-2))
	assert.Equal(t, 100.0, schoolGapScore(-1))
	assert.Equal(t, 60.0, schoolGapScore(0))
	assert.Equal(t, 40.0, schoolGapScore(1))
	assert.Equal(t, 20.0, schoolGapScore(4))
}

func TestAccreditationScore(t *testing.T) {
	v, ok := AccreditationScore(" a+ ")
	require.True(t, ok)
	assert.Equal(t, 95.0, v)

	v, ok = AccreditationScore("C-")
	require.True(t, ok)
	assert.Equal(t, 15.0, v)

	_, ok = AccreditationScore("D")
	assert.False(t, ok)
}

func TestSafeEval(t *testing.T) {
	res := safeEval(func() Result { panic("boom") })
	assert.Equal(t, ReasonComputation, res.Reason)

	res = safeEval(func() Result { return Result{Score: math.NaN()} })
	assert.Equal(t, ReasonInvalidValue, res.Reason)

	res = safeEval(func() Result { return scored(70, "ok") })
	assert.False(t, res.Missing())
	assert.Equal(t, 70.0, res.Score)
}

func TestEvaluateDimension_DefaultsAndFallback(t *testing.T) {
	rec := &countingRecorder{}
	req := &Request{Recorder: rec}
	fallback := 30.0

	got := evaluateDimension(req, models.DimensionSystemEmployment, "x/1", []metric{
		{SystemEmploymentWeights.get(CivilServant), func() Result { return scored(100, "full") }},
		{SystemEmploymentWeights.get(Institution), func() Result { return missing(ReasonNoValue, "") }},
		{SystemEmploymentWeights.get(StateOwned), func() Result {
			r := missing(ReasonNoValue, "estimated")
			r.Fallback = &fallback
			return r
		}},
	})

	require.Len(t, got.Scores, 3)
	assert.Equal(t, models.SourceData, got.Scores[0].Source)
	assert.Equal(t, models.SourceDefault, got.Scores[1].Source)
	assert.Equal(t, 50.0, got.Scores[1].Score)
	assert.NotEmpty(t, got.Scores[1].Description)
	assert.Equal(t, 30.0, got.Scores[2].Score)
	assert.InDelta(t, 100*0.4+50*0.3+30*0.3, got.Total, 1e-9)

	assert.Equal(t, 1, rec.counts["system_employment/institution"])
	assert.Equal(t, 1, rec.counts["system_employment/state_owned"])
}
