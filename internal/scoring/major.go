package scoring

import (
	"kaoyan-advisor/internal/models"
)

// MajorCalculator rates the strength of the school and the major against the
// other candidates in the request.
type MajorCalculator struct {
	req *Request
}

func NewMajorCalculator(req *Request) *MajorCalculator {
	return &MajorCalculator{req: req}
}

func (m *MajorCalculator) Dimension() models.Dimension {
	return models.DimensionMajor
}

func (m *MajorCalculator) CalculateTotal(c *models.CandidateSchoolMajor) models.DimensionResult {
	w := MajorWeights
	return evaluateDimension(m.req, models.DimensionMajor, c.Key(), []metric{
		{w.get(SchoolReputation), func() Result { return m.SchoolReputation(c) }},
		{w.get(MajorRanking), func() Result { return m.MajorRanking(c) }},
		{w.get(SchoolSatisfaction), func() Result { return m.SchoolSatisfaction(c) }},
		{w.get(MajorSatisfaction), func() Result { return m.MajorSatisfaction(c) }},
	})
}

// SchoolReputation ranks the school's national rank; a smaller rank is better.
func (m *MajorCalculator) SchoolReputation(c *models.CandidateSchoolMajor) Result {
	return schoolPercentile(m.req, c, MetricSchoolRank, true, "school reputation")
}

func (m *MajorCalculator) MajorRanking(c *models.CandidateSchoolMajor) Result {
	return majorPercentile(m.req, c, MetricMajorLevel, "discipline evaluation")
}

func (m *MajorCalculator) SchoolSatisfaction(c *models.CandidateSchoolMajor) Result {
	return schoolPercentile(m.req, c, MetricSchoolSatisfaction, false, "school satisfaction")
}

func (m *MajorCalculator) MajorSatisfaction(c *models.CandidateSchoolMajor) Result {
	return majorPercentile(m.req, c, MetricMajorSatisfaction, "major satisfaction")
}

func schoolPercentile(req *Request, c *models.CandidateSchoolMajor, sm SchoolMetric, reverse bool, label string) Result {
	v, reason := resolveSchoolMetric(req.Store, c.SchoolName, sm)
	if reason != "" {
		return missing(reason, label+" data missing")
	}
	return percentileResult(v, req.population().School(sm), reverse, label)
}

func majorPercentile(req *Request, c *models.CandidateSchoolMajor, mm MajorMetric, label string) Result {
	v, reason := resolveMajorMetric(req.Store, c.SchoolName, c.MajorCode, mm)
	if reason != "" {
		return missing(reason, label+" data missing")
	}
	return percentileResult(v, req.population().Major(mm), false, label)
}
