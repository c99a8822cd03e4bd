package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"kaoyan-advisor/internal/models"
)

func TestScoringRecorder_DefaultSubstituted(t *testing.T) {
	counter := DefaultSubstitutions.WithLabelValues("location", "cost_of_living")
	before := testutil.ToFloat64(counter)

	ScoringRecorder{}.DefaultSubstituted(models.DimensionLocation, "cost_of_living")
	ScoringRecorder{}.DefaultSubstituted(models.DimensionLocation, "cost_of_living")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestObserveTierResult(t *testing.T) {
	before := testutil.ToFloat64(CandidatesScored)

	ObserveTierResult(&models.TierResult{
		Match:           make([]models.ScoredCandidate, 2),
		TotalConsidered: 7,
	}, 20*time.Millisecond)

	assert.Equal(t, before+7, testutil.ToFloat64(CandidatesScored))
}
