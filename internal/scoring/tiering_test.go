package scoring

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaoyan-advisor/internal/models"
)

func scoredCandidate(code string, composite, probability float64) models.ScoredCandidate {
	return models.ScoredCandidate{
		Candidate:      models.CandidateSchoolMajor{SchoolName: "学校", MajorCode: code},
		CompositeScore: composite,
		Probability:    probability,
		Tier:           DefaultThresholds().Classify(probability),
	}
}

func TestSelectTiers_TopKPerTier(t *testing.T) {
	composites := []float64{55, 71, 42, 88, 63, 90, 47, 77, 59, 80}
	var in []models.ScoredCandidate
	for i, c := range composites {
		in = append(in, scoredCandidate(fmt.Sprintf("m%d", i), c, 60))
	}

	res := SelectTiers(in, 3)

	require.Len(t, res.Match, 3)
	assert.Equal(t, []float64{90, 88, 80}, []float64{
		res.Match[0].CompositeScore, res.Match[1].CompositeScore, res.Match[2].CompositeScore,
	})
	for i, sc := range res.Match {
		assert.Equal(t, i+1, sc.Rank)
	}
	assert.Empty(t, res.Reach)
	assert.Empty(t, res.Safety)
	assert.Equal(t, 10, res.TotalConsidered)
}

func TestSelectTiers_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var in []models.ScoredCandidate
	for i := 0; i < 60; i++ {
		in = append(in, scoredCandidate(fmt.Sprintf("m%d", i), rng.Float64()*100, rng.Float64()*100))
	}

	t.Run("bounded and sorted", func(t *testing.T) {
		res := SelectTiers(in, 3)
		seen := make(map[string]models.Tier)
		for _, tier := range []models.Tier{models.TierImpossible, models.TierReach, models.TierMatch, models.TierSafety} {
			bucket := res.Bucket(tier)
			assert.LessOrEqual(t, len(bucket), 3)
			for i, sc := range bucket {
				assert.Equal(t, tier, sc.Tier)
				assert.Equal(t, tier, DefaultThresholds().Classify(sc.Probability))
				if i > 0 {
					assert.GreaterOrEqual(t, bucket[i-1].CompositeScore, sc.CompositeScore)
				}
				_, dup := seen[sc.Candidate.Key()]
				assert.False(t, dup)
				seen[sc.Candidate.Key()] = tier
			}
		}
	})

	t.Run("no limit keeps everyone exactly once", func(t *testing.T) {
		res := SelectTiers(in, 0)
		total := len(res.Impossible) + len(res.Reach) + len(res.Match) + len(res.Safety)
		assert.Equal(t, len(in), total)
	})
}

func TestSelectTiers_StableTies(t *testing.T) {
	in := []models.ScoredCandidate{
		scoredCandidate("first", 70, 50),
		scoredCandidate("second", 70, 50),
		scoredCandidate("third", 70, 50),
	}
	res := SelectTiers(in, 2)
	require.Len(t, res.Match, 2)
	assert.Equal(t, "first", res.Match[0].Candidate.MajorCode)
	assert.Equal(t, "second", res.Match[1].Candidate.MajorCode)
}

func TestSelectTiers_HighProbabilityStaysSafety(t *testing.T) {
	res := SelectTiers([]models.ScoredCandidate{scoredCandidate("sure", 95, 99.5)}, 3)
	require.Len(t, res.Safety, 1)
	assert.Equal(t, 1, res.Safety[0].Rank)
}
