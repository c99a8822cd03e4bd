package scoring

import "kaoyan-advisor/internal/models"

// AdvancedStudyCalculator rates further-study outcomes of a school.
type AdvancedStudyCalculator struct {
	req *Request
}

func NewAdvancedStudyCalculator(req *Request) *AdvancedStudyCalculator {
	return &AdvancedStudyCalculator{req: req}
}

func (a *AdvancedStudyCalculator) Dimension() models.Dimension {
	return models.DimensionAdvancedStudy
}

func (a *AdvancedStudyCalculator) CalculateTotal(c *models.CandidateSchoolMajor) models.DimensionResult {
	w := AdvancedStudyWeights
	return evaluateDimension(a.req, models.DimensionAdvancedStudy, c.Key(), []metric{
		{w.get(FurtherStudyRate), func() Result { return a.FurtherStudyRate(c) }},
		{w.get(FurtherStudyNumber), func() Result { return a.FurtherStudyNumber(c) }},
		{w.get(AbroadStudyRatio), func() Result { return a.AbroadStudyRatio(c) }},
		{w.get(USStudyRatio), func() Result { return a.USStudyRatio(c) }},
	})
}

func (a *AdvancedStudyCalculator) FurtherStudyRate(c *models.CandidateSchoolMajor) Result {
	return schoolPercentile(a.req, c, MetricFurtherStudyRate, false, "further study rate")
}

func (a *AdvancedStudyCalculator) FurtherStudyNumber(c *models.CandidateSchoolMajor) Result {
	return schoolPercentile(a.req, c, MetricFurtherStudyNumber, false, "further study headcount")
}

func (a *AdvancedStudyCalculator) AbroadStudyRatio(c *models.CandidateSchoolMajor) Result {
	return schoolPercentile(a.req, c, MetricAbroadStudyRatio, false, "overseas study ratio")
}

func (a *AdvancedStudyCalculator) USStudyRatio(c *models.CandidateSchoolMajor) Result {
	return schoolPercentile(a.req, c, MetricUSStudyRatio, false, "USA study ratio")
}
