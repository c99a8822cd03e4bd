// internal/workers/advisory/score-candidates/models.go
package scorecandidates

import "kaoyan-advisor/internal/models"

const (
	CodeOK = 0

	MessageOK = "ok"
)

type Input struct {
	UserProfile       models.UserProfile            `json:"userProfile"`
	TargetPreferences models.TargetPreferences      `json:"targetPreferences"`
	Candidates        []models.CandidateSchoolMajor `json:"candidates"`
}

type Tiers struct {
	Reach  []models.ScoredCandidate `json:"reach"`
	Match  []models.ScoredCandidate `json:"match"`
	Safety []models.ScoredCandidate `json:"safety"`
}

type Output struct {
	Code            int    `json:"code"`
	Message         string `json:"message"`
	RunID           string `json:"runId"`
	Tiers           Tiers  `json:"tiers"`
	ImpossibleCount int    `json:"impossibleCount"`
	TotalConsidered int    `json:"totalConsidered"`
	DurationMs      int64  `json:"durationMs"`
}
