// internal/workers/advisory/search-candidates/models.go
package searchcandidates

import "kaoyan-advisor/internal/models"

type Input struct {
	TargetPreferences models.TargetPreferences `json:"targetPreferences"`
}

type Output struct {
	Candidates []models.CandidateSchoolMajor `json:"candidates"`
	Total      int64                         `json:"total"`
	Cached     bool                          `json:"cached"`
}
