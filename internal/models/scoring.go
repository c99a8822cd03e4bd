// internal/models/scoring.go
package models

const (
	SourceData    = "data"
	SourceDefault = "default"
)

type Dimension string

const (
	DimensionAdmission           Dimension = "admission"
	DimensionLocation            Dimension = "location"
	DimensionMajor               Dimension = "major"
	DimensionAdvancedStudy       Dimension = "advanced_study"
	DimensionSystemEmployment    Dimension = "system_employment"
	DimensionNonSystemEmployment Dimension = "non_system_employment"
)

// AllDimensions is the fixed evaluation order.
var AllDimensions = []Dimension{
	DimensionAdmission,
	DimensionLocation,
	DimensionMajor,
	DimensionAdvancedStudy,
	DimensionSystemEmployment,
	DimensionNonSystemEmployment,
}

type Tier string

const (
	TierImpossible Tier = "reach_impossible"
	TierReach      Tier = "reach"
	TierMatch      Tier = "match"
	TierSafety     Tier = "safety"
)

type DimensionScore struct {
	Name          string   `json:"name"`
	Score         float64  `json:"score"`
	Weight        float64  `json:"weight"`
	WeightedScore float64  `json:"weightedScore"`
	Description   string   `json:"description"`
	Source        string   `json:"source"`
	Percentile    *float64 `json:"percentile,omitempty"`
	RawValue      *float64 `json:"rawValue,omitempty"`
	MissingReason string   `json:"missingReason,omitempty"`
}

type DimensionResult struct {
	Dimension    Dimension        `json:"dimension"`
	Scores       []DimensionScore `json:"scores"`
	Total        float64          `json:"total"`
	CandidateKey string           `json:"candidateKey"`
}

type ScoredCandidate struct {
	Candidate      CandidateSchoolMajor `json:"candidate"`
	Dimensions     []DimensionResult    `json:"dimensions"`
	CompositeScore float64              `json:"compositeScore"`
	AdmissionScore float64              `json:"admissionScore"`
	Probability    float64              `json:"probability"`
	Tier           Tier                 `json:"tier"`
	Rank           int                  `json:"rank"`
}

// Dimension returns the result for d, or nil if it was not computed.
func (s *ScoredCandidate) Dimension(d Dimension) *DimensionResult {
	for i := range s.Dimensions {
		if s.Dimensions[i].Dimension == d {
			return &s.Dimensions[i]
		}
	}
	return nil
}

type TierResult struct {
	Reach           []ScoredCandidate `json:"reach"`
	Match           []ScoredCandidate `json:"match"`
	Safety          []ScoredCandidate `json:"safety"`
	Impossible      []ScoredCandidate `json:"reachImpossible"`
	TotalConsidered int               `json:"totalConsidered"`
	Message         string            `json:"message,omitempty"`
}

// Bucket returns the slice for tier t.
func (r *TierResult) Bucket(t Tier) []ScoredCandidate {
	switch t {
	case TierReach:
		return r.Reach
	case TierMatch:
		return r.Match
	case TierSafety:
		return r.Safety
	default:
		return r.Impossible
	}
}
