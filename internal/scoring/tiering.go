package scoring

import (
	"sort"

	"kaoyan-advisor/internal/models"
)

// SelectTiers buckets candidates by their tier label, orders each bucket by
// composite score descending and keeps the first topK. Ties keep input
// order. Ranks are 1-based within each bucket. topK <= 0 keeps everything.
func SelectTiers(scored []models.ScoredCandidate, topK int) *models.TierResult {
	buckets := map[models.Tier][]models.ScoredCandidate{
		models.TierImpossible: {},
		models.TierReach:      {},
		models.TierMatch:      {},
		models.TierSafety:     {},
	}
	for _, sc := range scored {
		buckets[sc.Tier] = append(buckets[sc.Tier], sc)
	}

	for tier, b := range buckets {
		sort.SliceStable(b, func(i, j int) bool {
			return b[i].CompositeScore > b[j].CompositeScore
		})
		if topK > 0 && len(b) > topK {
			b = b[:topK]
		}
		for i := range b {
			b[i].Rank = i + 1
		}
		buckets[tier] = b
	}

	return &models.TierResult{
		Reach:           buckets[models.TierReach],
		Match:           buckets[models.TierMatch],
		Safety:          buckets[models.TierSafety],
		Impossible:      buckets[models.TierImpossible],
		TotalConsidered: len(scored),
	}
}
